package interfaces

import (
	"context"
	"time"

	"github.com/hanamise/storefront/internal/domain"
)

// ShippingUpdateMessage is published to the shipping fanout after a
// fulfillment transition has been persisted. It carries everything the
// notification side needs so the subscriber never reads the order store.
type ShippingUpdateMessage struct {
	OrderID           string                   `json:"order_id"`
	OrderNumber       string                   `json:"order_number"`
	CustomerEmail     string                   `json:"customer_email"`
	OldStatus         domain.FulfillmentStatus `json:"old_status"`
	NewStatus         domain.FulfillmentStatus `json:"new_status"`
	Description       string                   `json:"description"`
	TrackingNumber    string                   `json:"tracking_number,omitempty"`
	TrackingURL       string                   `json:"tracking_url,omitempty"`
	EstimatedDelivery string                   `json:"estimated_delivery,omitempty"`
	PerformedBy       string                   `json:"performed_by"`
	Timestamp         time.Time                `json:"timestamp"`
}

// ShippingUpdatePublisher is the post-commit notification hook. Publish
// failures are never part of a transition's result.
type ShippingUpdatePublisher interface {
	PublishShippingUpdate(ctx context.Context, msg ShippingUpdateMessage) error
}

type ShippingUpdateHandler func(ctx context.Context, body []byte) error

type MessageConsumer interface {
	ConsumeShippingUpdates(ctx context.Context, handler ShippingUpdateHandler) error
}

// Mailer delivers one rendered mail. Best-effort; callers only log failures.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}
