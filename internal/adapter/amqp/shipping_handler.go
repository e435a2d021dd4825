package amqp

import (
	"context"
	"encoding/json"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/app/notification"
	"github.com/hanamise/storefront/internal/interfaces"
)

// ShippingHandler decodes shipping update messages off the wire and hands
// them to the notification service.
type ShippingHandler struct {
	service *notification.Service
	logger  logger.Logger
}

func NewShippingHandler(service *notification.Service, logger logger.Logger) *ShippingHandler {
	return &ShippingHandler{service: service, logger: logger}
}

func (h *ShippingHandler) HandleShippingUpdate(ctx context.Context, body []byte) error {
	var msg interfaces.ShippingUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse shipping update", "", nil, err)
		return err
	}

	h.logger.Debug("shipping_update_received", "Received shipping update", msg.OrderNumber, map[string]interface{}{
		"order_number": msg.OrderNumber,
		"old_status":   string(msg.OldStatus),
		"new_status":   string(msg.NewStatus),
	})

	return h.service.HandleShippingUpdate(ctx, msg)
}
