package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrCouponNotFound = errors.New("coupon not found")

// CouponType distinguishes percentage discounts from fixed-amount ones.
type CouponType string

const (
	CouponPercentage  CouponType = "percentage"
	CouponFixedAmount CouponType = "fixed_amount"
)

// Coupon is a discount code with a validity window and usage limits.
type Coupon struct {
	ID            string
	Code          string
	Description   string
	Type          CouponType
	Value         int64
	MinimumAmount int64
	UsageLimit    int
	UsageCount    int
	ValidFrom     time.Time
	ValidUntil    *time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Discount returns the discount amount this coupon grants on an order of the
// given total, or an error explaining why it cannot be applied.
func (c *Coupon) Discount(orderAmount int64, now time.Time) (int64, error) {
	if !c.Active {
		return 0, errors.New("クーポンコードが無効です")
	}
	if now.Before(c.ValidFrom) {
		return 0, errors.New("このクーポンはまだ使用できません")
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return 0, errors.New("このクーポンは有効期限が切れています")
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return 0, errors.New("このクーポンは使用上限に達しています")
	}
	if c.MinimumAmount > 0 && orderAmount < c.MinimumAmount {
		return 0, fmt.Errorf("このクーポンは%d円以上の注文で使用できます", c.MinimumAmount)
	}

	if c.Type == CouponPercentage {
		return orderAmount * c.Value / 100, nil
	}
	if c.Value > orderAmount {
		return orderAmount, nil
	}
	return c.Value, nil
}
