package http

import (
	"time"

	"github.com/hanamise/storefront/internal/domain"
)

// JSON views for the API. Domain structs stay tag-free; these decide the
// wire shape.

type orderView struct {
	ID                 string                 `json:"id"`
	Number             string                 `json:"number"`
	CustomerEmail      string                 `json:"customer_email,omitempty"`
	CustomerName       string                 `json:"customer_name,omitempty"`
	CustomerPhone      string                 `json:"customer_phone,omitempty"`
	ShippingAddress    *domain.Address        `json:"shipping_address,omitempty"`
	Items              []domain.OrderItem     `json:"items"`
	Total              int64                  `json:"total"`
	Status             string                 `json:"status"`
	PaymentStatus      string                 `json:"payment_status"`
	FulfillmentStatus  string                 `json:"fulfillment_status"`
	StatusLabel        string                 `json:"status_label"`
	ShippingHistory    []domain.ShippingEvent `json:"shipping_history"`
	TrackingNumber     string                 `json:"tracking_number,omitempty"`
	TrackingURL        string                 `json:"tracking_url,omitempty"`
	ShippingCarrier    string                 `json:"shipping_carrier,omitempty"`
	EstimatedDelivery  *time.Time             `json:"estimated_delivery,omitempty"`
	ActualDelivery     *time.Time             `json:"actual_delivery,omitempty"`
	LastShippingUpdate *time.Time             `json:"last_shipping_update,omitempty"`
	DiscountCode       string                 `json:"discount_code,omitempty"`
	DiscountAmount     int64                  `json:"discount_amount,omitempty"`
	Notes              string                 `json:"notes,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

func toOrderView(o *domain.Order) orderView {
	status := o.CurrentFulfillmentStatus()
	return orderView{
		ID:                 o.ID,
		Number:             o.Number,
		CustomerEmail:      o.CustomerEmail,
		CustomerName:       o.CustomerName,
		CustomerPhone:      o.CustomerPhone,
		ShippingAddress:    o.ShippingAddress,
		Items:              o.Items,
		Total:              o.Total,
		Status:             string(o.Status),
		PaymentStatus:      string(o.PaymentStatus),
		FulfillmentStatus:  string(status),
		StatusLabel:        status.Label(),
		ShippingHistory:    o.ShippingHistory,
		TrackingNumber:     o.TrackingNumber,
		TrackingURL:        o.TrackingURL,
		ShippingCarrier:    o.ShippingCarrier,
		EstimatedDelivery:  o.EstimatedDelivery,
		ActualDelivery:     o.ActualDelivery,
		LastShippingUpdate: o.LastShippingUpdate,
		DiscountCode:       o.DiscountCode,
		DiscountAmount:     o.DiscountAmount,
		Notes:              o.Notes,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toOrderViews(orders []*domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}

type productView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Image       string    `json:"image,omitempty"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Currency:    p.Currency,
		Stock:       p.Stock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductViews(products []*domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

type couponView struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	Value         int64      `json:"value"`
	MinimumAmount int64      `json:"minimum_amount,omitempty"`
	UsageLimit    int        `json:"usage_limit,omitempty"`
	UsageCount    int        `json:"usage_count"`
	ValidFrom     time.Time  `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toCouponView(c *domain.Coupon) couponView {
	return couponView{
		ID:            c.ID,
		Code:          c.Code,
		Description:   c.Description,
		Type:          string(c.Type),
		Value:         c.Value,
		MinimumAmount: c.MinimumAmount,
		UsageLimit:    c.UsageLimit,
		UsageCount:    c.UsageCount,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
	}
}

type customerView struct {
	ID            string                   `json:"id"`
	Email         string                   `json:"email"`
	Name          string                   `json:"name,omitempty"`
	Phone         string                   `json:"phone,omitempty"`
	Addresses     []domain.CustomerAddress `json:"addresses,omitempty"`
	TotalOrders   int                      `json:"total_orders"`
	TotalSpent    int64                    `json:"total_spent"`
	LastOrderDate *time.Time               `json:"last_order_date,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

func toCustomerView(c *domain.Customer) customerView {
	return customerView{
		ID:            c.ID,
		Email:         c.Email,
		Name:          c.Name,
		Phone:         c.Phone,
		Addresses:     c.Addresses,
		TotalOrders:   c.TotalOrders,
		TotalSpent:    c.TotalSpent,
		LastOrderDate: c.LastOrderDate,
		CreatedAt:     c.CreatedAt,
	}
}
