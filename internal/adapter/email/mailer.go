package email

import (
	"context"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/interfaces"
)

// DemoMailer logs rendered mails instead of delivering them. Swap in a real
// provider adapter for production.
type DemoMailer struct {
	logger logger.Logger
}

func NewDemoMailer(logger logger.Logger) interfaces.Mailer {
	return &DemoMailer{logger: logger}
}

func (m *DemoMailer) SendEmail(ctx context.Context, to, subject, html string) error {
	m.logger.Info("email_sent", "Email delivered (demo mode)", "", map[string]interface{}{
		"to":        to,
		"subject":   subject,
		"body_size": len(html),
	})
	return nil
}
