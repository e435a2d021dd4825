package domain

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus is the overall (non-fulfillment) state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentStatus tracks what happened to the payment itself.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderUpdateFailed = errors.New("order update failed")
)

// InvalidTransitionError is returned when a fulfillment status move is not
// permitted by the transition table.
type InvalidTransitionError struct {
	From FulfillmentStatus
	To   FulfillmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%sから%sへの遷移は許可されていません", e.From, e.To)
}

// ShippingEvent is one immutable, timestamped entry of an order's shipping
// history. Events are appended in chronological order and never rewritten.
type ShippingEvent struct {
	Timestamp     time.Time         `json:"timestamp"`
	Status        FulfillmentStatus `json:"status"`
	Description   string            `json:"description"`
	Location      string            `json:"location,omitempty"`
	CarrierStatus string            `json:"carrier_status,omitempty"`
	PerformedBy   string            `json:"performed_by,omitempty"`
}

// Address is a shipping or billing address captured at checkout.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem is one purchased line of an order.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// Order is the aggregate the fulfillment engine mutates. Its
// FulfillmentStatus always equals the status of the last ShippingHistory
// entry once any transition has occurred.
type Order struct {
	ID                 string
	Number             string
	StripeSessionID    string
	CustomerEmail      string
	CustomerName       string
	CustomerPhone      string
	ShippingAddress    *Address
	Items              []OrderItem
	Total              int64
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	FulfillmentStatus  FulfillmentStatus
	ShippingHistory    []ShippingEvent
	TrackingNumber     string
	TrackingURL        string
	ShippingCarrier    string
	EstimatedDelivery  *time.Time
	ActualDelivery     *time.Time
	LastShippingUpdate *time.Time
	DiscountCode       string
	DiscountAmount     int64
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewOrder builds a paid, unfulfilled order with its seed shipping event.
func NewOrder(id, number, sessionID string, items []OrderItem, total int64, createdAt time.Time) *Order {
	return &Order{
		ID:                id,
		Number:            number,
		StripeSessionID:   sessionID,
		Items:             items,
		Total:             total,
		Status:            OrderStatusProcessing,
		PaymentStatus:     PaymentPaid,
		FulfillmentStatus: FulfillmentUnfulfilled,
		ShippingHistory: []ShippingEvent{{
			Timestamp:   createdAt,
			Status:      FulfillmentUnfulfilled,
			Description: "注文を受け付けました",
			PerformedBy: "System",
		}},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// CurrentFulfillmentStatus returns the order's fulfillment status, treating
// records that predate the field as unfulfilled.
func (o *Order) CurrentFulfillmentStatus() FulfillmentStatus {
	if o.FulfillmentStatus == "" {
		return FulfillmentUnfulfilled
	}
	return o.FulfillmentStatus
}

// AppendShippingEvent records the event and keeps the status invariant.
func (o *Order) AppendShippingEvent(ev ShippingEvent) {
	o.ShippingHistory = append(o.ShippingHistory, ev)
	o.FulfillmentStatus = ev.Status
	ts := ev.Timestamp
	o.LastShippingUpdate = &ts
}
