package notification

import (
	"context"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/interfaces"
)

// Service turns shipping update messages into customer mails. Failures are
// logged and swallowed; notification is never part of a transition's result.
type Service struct {
	mailer interfaces.Mailer
	logger logger.Logger
}

func NewService(mailer interfaces.Mailer, logger logger.Logger) *Service {
	return &Service{mailer: mailer, logger: logger}
}

func (s *Service) HandleShippingUpdate(ctx context.Context, msg interfaces.ShippingUpdateMessage) error {
	if msg.CustomerEmail == "" {
		return nil
	}

	subject, html, ok := RenderShippingMail(msg)
	if !ok {
		return nil
	}

	if err := s.mailer.SendEmail(ctx, msg.CustomerEmail, subject, html); err != nil {
		s.logger.Error("notification_failed", "Failed to send shipping mail", "", map[string]interface{}{
			"order_number": msg.OrderNumber,
			"new_status":   string(msg.NewStatus),
		}, err)
		return nil
	}

	s.logger.Debug("notification_sent", "Shipping mail sent", "", map[string]interface{}{
		"to":         msg.CustomerEmail,
		"new_status": string(msg.NewStatus),
	})
	return nil
}
