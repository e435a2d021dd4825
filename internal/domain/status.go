package domain

import "fmt"

// FulfillmentStatus is the stage of an order's post-payment shipping lifecycle.
type FulfillmentStatus string

const (
	FulfillmentUnfulfilled    FulfillmentStatus = "unfulfilled"
	FulfillmentProcessing     FulfillmentStatus = "processing"
	FulfillmentReadyToShip    FulfillmentStatus = "ready_to_ship"
	FulfillmentShipped        FulfillmentStatus = "shipped"
	FulfillmentOutForDelivery FulfillmentStatus = "out_for_delivery"
	FulfillmentDelivered      FulfillmentStatus = "delivered"
	FulfillmentDeliveryFailed FulfillmentStatus = "delivery_failed"
	FulfillmentReturned       FulfillmentStatus = "returned"
	FulfillmentCancelled      FulfillmentStatus = "cancelled"
	FulfillmentRefunded       FulfillmentStatus = "refunded"
)

// fulfillmentStatusFlow is the fixed directed graph of legal status moves.
// Terminal states map to an empty set.
var fulfillmentStatusFlow = map[FulfillmentStatus][]FulfillmentStatus{
	FulfillmentUnfulfilled:    {FulfillmentProcessing, FulfillmentCancelled},
	FulfillmentProcessing:     {FulfillmentReadyToShip, FulfillmentCancelled},
	FulfillmentReadyToShip:    {FulfillmentShipped, FulfillmentCancelled},
	FulfillmentShipped:        {FulfillmentOutForDelivery, FulfillmentDelivered, FulfillmentReturned},
	FulfillmentOutForDelivery: {FulfillmentDelivered, FulfillmentDeliveryFailed},
	FulfillmentDelivered:      {FulfillmentReturned},
	FulfillmentDeliveryFailed: {FulfillmentShipped, FulfillmentReturned, FulfillmentCancelled},
	FulfillmentReturned:       {FulfillmentRefunded},
	FulfillmentCancelled:      {},
	FulfillmentRefunded:       {},
}

// StatusDetail carries presentation metadata for a fulfillment status.
type StatusDetail struct {
	Label string
	Color string
	Icon  string
}

// FulfillmentStatusDetails maps every status to its display metadata.
var FulfillmentStatusDetails = map[FulfillmentStatus]StatusDetail{
	FulfillmentUnfulfilled:    {Label: "未処理", Color: "gray", Icon: "📦"},
	FulfillmentProcessing:     {Label: "処理中", Color: "yellow", Icon: "⚙️"},
	FulfillmentReadyToShip:    {Label: "発送準備完了", Color: "blue", Icon: "📋"},
	FulfillmentShipped:        {Label: "発送済み", Color: "purple", Icon: "🚚"},
	FulfillmentOutForDelivery: {Label: "配達中", Color: "indigo", Icon: "🚛"},
	FulfillmentDelivered:      {Label: "配達完了", Color: "green", Icon: "✅"},
	FulfillmentDeliveryFailed: {Label: "配達失敗", Color: "red", Icon: "❌"},
	FulfillmentReturned:       {Label: "返品", Color: "orange", Icon: "↩️"},
	FulfillmentCancelled:      {Label: "キャンセル", Color: "gray", Icon: "🚫"},
	FulfillmentRefunded:       {Label: "返金済み", Color: "gray", Icon: "💰"},
}

// CanTransition reports whether current -> next is a legal move.
// Unknown statuses fail closed.
func CanTransition(current, next FulfillmentStatus) bool {
	allowed, ok := fulfillmentStatusFlow[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// Valid reports whether the status is a recognized fulfillment status.
func (s FulfillmentStatus) Valid() bool {
	_, ok := fulfillmentStatusFlow[s]
	return ok
}

// Terminal reports whether no further transitions are permitted from s.
func (s FulfillmentStatus) Terminal() bool {
	allowed, ok := fulfillmentStatusFlow[s]
	return ok && len(allowed) == 0
}

// Label returns the display label for the status, or the raw value when unknown.
func (s FulfillmentStatus) Label() string {
	if d, ok := FulfillmentStatusDetails[s]; ok {
		return d.Label
	}
	return string(s)
}

var statusChangeDescriptions = map[string]string{
	"unfulfilled_processing":           "注文の処理を開始しました",
	"processing_ready_to_ship":         "商品の梱包が完了しました",
	"ready_to_ship_shipped":            "商品を発送しました",
	"shipped_out_for_delivery":         "配達員が商品を持って配達に向かっています",
	"out_for_delivery_delivered":       "商品が配達されました",
	"out_for_delivery_delivery_failed": "配達に失敗しました（不在等）",
	"shipped_returned":                 "商品が返送されました",
	"returned_refunded":                "返金処理が完了しました",
}

// StatusChangeDescription returns the canned description for a transition,
// falling back to a generic message for pairs without one.
func StatusChangeDescription(from, to FulfillmentStatus) string {
	if desc, ok := statusChangeDescriptions[string(from)+"_"+string(to)]; ok {
		return desc
	}
	return fmt.Sprintf("ステータスが%sに変更されました", to)
}
