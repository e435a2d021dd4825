package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateTrackingNumber(t *testing.T) {
	t.Parallel()

	require.Equal(t, "123400000042", GenerateTrackingNumber("yamato", 42))
	require.Equal(t, "567812345678", GenerateTrackingNumber("sagawa", 12345678))

	// Random component is taken modulo 8 digits.
	require.Equal(t, "901223456789", GenerateTrackingNumber("jppost", 123456789))

	// Unknown carriers still get a number.
	require.Equal(t, "000000000007", GenerateTrackingNumber("dhl", 7))
}

func TestTrackingURL(t *testing.T) {
	t.Parallel()

	url := TrackingURL("yamato", "123400000042")
	require.Equal(t, "https://toi.kuronekoyamato.co.jp/cgi-bin/tneko?init&q=123400000042", url)

	require.Empty(t, TrackingURL("dhl", "whatever"))
}

func TestEstimatedDeliverySkipsWeekend(t *testing.T) {
	t.Parallel()

	// Thursday + 2 standard days lands on Saturday, which pushes to Monday.
	thursday := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	got := EstimatedDelivery("yamato", false, thursday)
	require.Equal(t, time.Monday, got.Weekday())
	require.Equal(t, 6, got.Day())

	// Express from the same day lands on Friday, untouched.
	got = EstimatedDelivery("yamato", true, thursday)
	require.Equal(t, time.Friday, got.Weekday())
	require.Equal(t, 3, got.Day())
}

func TestEstimatedDeliveryUnknownCarrier(t *testing.T) {
	t.Parallel()

	require.True(t, EstimatedDelivery("dhl", false, time.Now()).IsZero())
}
