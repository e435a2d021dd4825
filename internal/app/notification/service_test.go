package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

type fakeMailer struct {
	sent []struct{ to, subject string }
	err  error
}

func (m *fakeMailer) SendEmail(ctx context.Context, to, subject, html string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, struct{ to, subject string }{to, subject})
	return nil
}

func TestHandleShippingUpdateSendsMail(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	svc := NewService(mailer, logger.Nop())

	err := svc.HandleShippingUpdate(context.Background(), interfaces.ShippingUpdateMessage{
		OrderNumber:   "ORD-000042",
		CustomerEmail: "taro@example.com",
		NewStatus:     domain.FulfillmentDelivered,
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "taro@example.com", mailer.sent[0].to)
	require.Contains(t, mailer.sent[0].subject, "ORD-000042")
}

func TestHandleShippingUpdateSkipsWithoutEmail(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	svc := NewService(mailer, logger.Nop())

	err := svc.HandleShippingUpdate(context.Background(), interfaces.ShippingUpdateMessage{
		OrderNumber: "ORD-000042",
		NewStatus:   domain.FulfillmentDelivered,
	})
	require.NoError(t, err)
	require.Empty(t, mailer.sent)
}

func TestHandleShippingUpdateSkipsSilentStatus(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	svc := NewService(mailer, logger.Nop())

	err := svc.HandleShippingUpdate(context.Background(), interfaces.ShippingUpdateMessage{
		OrderNumber:   "ORD-000042",
		CustomerEmail: "taro@example.com",
		NewStatus:     domain.FulfillmentProcessing,
	})
	require.NoError(t, err)
	require.Empty(t, mailer.sent)
}

func TestHandleShippingUpdateSwallowsMailerFailure(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := NewService(mailer, logger.Nop())

	err := svc.HandleShippingUpdate(context.Background(), interfaces.ShippingUpdateMessage{
		OrderNumber:   "ORD-000042",
		CustomerEmail: "taro@example.com",
		NewStatus:     domain.FulfillmentDelivered,
	})
	require.NoError(t, err)
}
