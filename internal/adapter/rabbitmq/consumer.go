package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn   Connection
	logger logger.Logger
}

func NewConsumer(conn Connection, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, logger: logger}
}

// ConsumeShippingUpdates blocks, delivering fanout messages to the handler
// until the context is cancelled. Lost channels are reopened after a delay.
func (c *consumer) ConsumeShippingUpdates(ctx context.Context, handler interfaces.ShippingUpdateHandler) error {
	for {
		err := c.consumeWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Error("consumer_disconnected", "Shipping updates consumer disconnected, reconnecting", "", map[string]interface{}{
			"retry_in": reconnectDelay.String(),
		}, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *consumer) consumeWithReconnect(ctx context.Context, handler interfaces.ShippingUpdateHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(ShippingExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Each subscriber gets its own temporary queue so every one of them
	// sees every update.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", ShippingExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// Notifications are best effort; a bad message must not
			// stop the subscriber.
			_ = handler(ctx, msg.Body)
		}
	}
}
