package notification

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

func TestOnlyNotifyingStatusesHaveTemplates(t *testing.T) {
	t.Parallel()

	notifying := []domain.FulfillmentStatus{
		domain.FulfillmentShipped,
		domain.FulfillmentOutForDelivery,
		domain.FulfillmentDelivered,
		domain.FulfillmentDeliveryFailed,
	}
	require.Len(t, mailTemplates, len(notifying))
	for _, s := range notifying {
		_, ok := mailTemplates[s]
		require.True(t, ok, "%s", s)
	}

	silent := []domain.FulfillmentStatus{
		domain.FulfillmentUnfulfilled,
		domain.FulfillmentProcessing,
		domain.FulfillmentReadyToShip,
		domain.FulfillmentReturned,
		domain.FulfillmentCancelled,
		domain.FulfillmentRefunded,
	}
	for _, s := range silent {
		_, _, ok := RenderShippingMail(interfaces.ShippingUpdateMessage{NewStatus: s})
		require.False(t, ok, "%s", s)
	}
}

func TestRenderShippedMail(t *testing.T) {
	t.Parallel()

	subject, html, ok := RenderShippingMail(interfaces.ShippingUpdateMessage{
		OrderNumber:       "ORD-000042",
		NewStatus:         domain.FulfillmentShipped,
		TrackingNumber:    "123400000042",
		TrackingURL:       "https://example.com/track/123400000042",
		EstimatedDelivery: "2025-03-05",
	})
	require.True(t, ok)
	require.Equal(t, "【発送完了】ご注文商品を発送しました（注文番号: ORD-000042）", subject)
	require.Contains(t, html, "123400000042")
	require.Contains(t, html, "2025-03-05")
	require.Contains(t, html, `href="https://example.com/track/123400000042"`)
}

func TestRenderShippedMailDefaults(t *testing.T) {
	t.Parallel()

	_, html, ok := RenderShippingMail(interfaces.ShippingUpdateMessage{
		OrderNumber: "ORD-000042",
		NewStatus:   domain.FulfillmentShipped,
	})
	require.True(t, ok)
	require.Contains(t, html, "未設定")
	require.Contains(t, html, "2-3営業日")
	// No tracking URL, no link.
	require.NotContains(t, html, "href")
}

func TestRenderDeliveryFailedMail(t *testing.T) {
	t.Parallel()

	subject, html, ok := RenderShippingMail(interfaces.ShippingUpdateMessage{
		OrderNumber: "ORD-000042",
		NewStatus:   domain.FulfillmentDeliveryFailed,
	})
	require.True(t, ok)
	require.Equal(t, "【配達できませんでした】再配達のご案内（注文番号: ORD-000042）", subject)
	require.Contains(t, html, "再配達")
}
