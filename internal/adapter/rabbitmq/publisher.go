package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hanamise/storefront/internal/interfaces"
)

// ShippingExchange is the fanout every shipping status change is published to.
const ShippingExchange = "shipping_updates_fanout"

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.ShippingUpdatePublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishShippingUpdate(ctx context.Context, msg interfaces.ShippingUpdateMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ShippingExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(ShippingExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
