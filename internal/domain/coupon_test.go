package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validCoupon(now time.Time) *Coupon {
	return &Coupon{
		ID:        "coup_1",
		Code:      "WELCOME10",
		Type:      CouponPercentage,
		Value:     10,
		ValidFrom: now.Add(-time.Hour),
		Active:    true,
	}
}

func TestCouponDiscountPercentage(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := validCoupon(now)

	discount, err := c.Discount(5000, now)
	require.NoError(t, err)
	require.Equal(t, int64(500), discount)
}

func TestCouponDiscountFixedCappedAtTotal(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := validCoupon(now)
	c.Type = CouponFixedAmount
	c.Value = 1000

	discount, err := c.Discount(5000, now)
	require.NoError(t, err)
	require.Equal(t, int64(1000), discount)

	discount, err = c.Discount(700, now)
	require.NoError(t, err)
	require.Equal(t, int64(700), discount)
}

func TestCouponDiscountRejections(t *testing.T) {
	t.Parallel()

	now := time.Now()

	inactive := validCoupon(now)
	inactive.Active = false
	_, err := inactive.Discount(5000, now)
	require.EqualError(t, err, "クーポンコードが無効です")

	notYet := validCoupon(now)
	notYet.ValidFrom = now.Add(time.Hour)
	_, err = notYet.Discount(5000, now)
	require.EqualError(t, err, "このクーポンはまだ使用できません")

	expired := validCoupon(now)
	past := now.Add(-time.Minute)
	expired.ValidUntil = &past
	_, err = expired.Discount(5000, now)
	require.EqualError(t, err, "このクーポンは有効期限が切れています")

	usedUp := validCoupon(now)
	usedUp.UsageLimit = 3
	usedUp.UsageCount = 3
	_, err = usedUp.Discount(5000, now)
	require.EqualError(t, err, "このクーポンは使用上限に達しています")

	tooSmall := validCoupon(now)
	tooSmall.MinimumAmount = 3000
	_, err = tooSmall.Discount(2999, now)
	require.EqualError(t, err, "このクーポンは3000円以上の注文で使用できます")
}
