package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionTable(t *testing.T) {
	t.Parallel()

	allowed := map[FulfillmentStatus][]FulfillmentStatus{
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

	all := make([]FulfillmentStatus, 0, len(allowed))
	for s := range allowed {
		all = append(all, s)
	}

	// Every pair must agree with the table, in both directions.
	for from, targets := range allowed {
		permitted := map[FulfillmentStatus]bool{}
		for _, to := range targets {
			permitted[to] = true
		}
		for _, to := range all {
			require.Equal(t, permitted[to], CanTransition(from, to),
				"%s -> %s", from, to)
		}
	}
}

func TestCanTransitionSelfLoopsRejected(t *testing.T) {
	t.Parallel()

	for s := range fulfillmentStatusFlow {
		require.False(t, CanTransition(s, s), "self loop %s", s)
	}
}

func TestCanTransitionUnknownStatusFailsClosed(t *testing.T) {
	t.Parallel()

	require.False(t, CanTransition("bogus", FulfillmentProcessing))
	require.False(t, CanTransition(FulfillmentProcessing, "bogus"))
	require.False(t, CanTransition("", FulfillmentProcessing))
}

func TestTerminalStatuses(t *testing.T) {
	t.Parallel()

	for s := range fulfillmentStatusFlow {
		switch s {
		case FulfillmentCancelled, FulfillmentRefunded:
			require.True(t, s.Terminal(), "%s", s)
		default:
			require.False(t, s.Terminal(), "%s", s)
		}
	}
	require.False(t, FulfillmentStatus("bogus").Terminal())
}

func TestValid(t *testing.T) {
	t.Parallel()

	require.True(t, FulfillmentShipped.Valid())
	require.False(t, FulfillmentStatus("bogus").Valid())
	require.False(t, FulfillmentStatus("").Valid())
}

func TestEveryStatusHasDetails(t *testing.T) {
	t.Parallel()

	for s := range fulfillmentStatusFlow {
		d, ok := FulfillmentStatusDetails[s]
		require.True(t, ok, "%s", s)
		require.NotEmpty(t, d.Label)
		require.NotEmpty(t, d.Color)
	}
}

func TestStatusChangeDescription(t *testing.T) {
	t.Parallel()

	require.Equal(t, "商品を発送しました",
		StatusChangeDescription(FulfillmentReadyToShip, FulfillmentShipped))
	require.Equal(t, "配達に失敗しました（不在等）",
		StatusChangeDescription(FulfillmentOutForDelivery, FulfillmentDeliveryFailed))

	// Pairs without a canned description fall back to the generic message.
	require.Equal(t, "ステータスがcancelledに変更されました",
		StatusChangeDescription(FulfillmentProcessing, FulfillmentCancelled))
}
