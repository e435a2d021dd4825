package notification

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

// mailData is what the status templates can reference.
type mailData struct {
	OrderNumber       string
	TrackingNumber    string
	TrackingURL       string
	EstimatedDelivery string
}

type mailTemplate struct {
	subject string // fmt format, order number as %s
	body    *template.Template
}

// Only these statuses notify the customer; every other transition is silent.
var mailTemplates = map[domain.FulfillmentStatus]mailTemplate{
	domain.FulfillmentShipped: {
		subject: "【発送完了】ご注文商品を発送しました（注文番号: %s）",
		body: template.Must(template.New("shipped").Parse(`<h2>商品を発送いたしました</h2>
<p>お客様のご注文商品を発送いたしました。</p>
<p>追跡番号: {{.TrackingNumber}}</p>
<p>配送予定日: {{.EstimatedDelivery}}</p>
{{if .TrackingURL}}<p><a href="{{.TrackingURL}}">配送状況を確認</a></p>{{end}}`)),
	},
	domain.FulfillmentOutForDelivery: {
		subject: "【配達中】本日お届け予定です（注文番号: %s）",
		body: template.Must(template.New("out_for_delivery").Parse(`<h2>本日お届け予定です</h2>
<p>商品は配達員がお持ちしており、本日中にお届けの予定です。</p>`)),
	},
	domain.FulfillmentDelivered: {
		subject: "【配達完了】ご注文商品をお届けしました（注文番号: %s）",
		body: template.Must(template.New("delivered").Parse(`<h2>商品のお届けが完了しました</h2>
<p>ご注文いただいた商品の配達が完了いたしました。</p>
<p>この度はご利用いただきありがとうございました。</p>`)),
	},
	domain.FulfillmentDeliveryFailed: {
		subject: "【配達できませんでした】再配達のご案内（注文番号: %s）",
		body: template.Must(template.New("delivery_failed").Parse(`<h2>配達できませんでした</h2>
<p>ご不在等の理由により、商品をお届けできませんでした。</p>
<p>再配達のご希望は配送業者までご連絡ください。</p>
{{if .TrackingURL}}<p><a href="{{.TrackingURL}}">再配達の申し込み</a></p>{{end}}`)),
	},
}

// RenderShippingMail renders the customer mail for a shipping update.
// ok is false when the status has no template.
func RenderShippingMail(msg interfaces.ShippingUpdateMessage) (subject, html string, ok bool) {
	tmpl, found := mailTemplates[msg.NewStatus]
	if !found {
		return "", "", false
	}

	data := mailData{
		OrderNumber:       msg.OrderNumber,
		TrackingNumber:    msg.TrackingNumber,
		TrackingURL:       msg.TrackingURL,
		EstimatedDelivery: msg.EstimatedDelivery,
	}
	if data.TrackingNumber == "" {
		data.TrackingNumber = "未設定"
	}
	if data.EstimatedDelivery == "" {
		data.EstimatedDelivery = "2-3営業日"
	}

	var sb strings.Builder
	if err := tmpl.body.Execute(&sb, data); err != nil {
		return "", "", false
	}

	return fmt.Sprintf(tmpl.subject, msg.OrderNumber), sb.String(), true
}
