package fulfillment

import (
	"context"
	"math/rand"
	"time"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

const (
	shippedAdvanceAfter        = 48 * time.Hour
	outForDeliveryAdvanceAfter = 8 * time.Hour

	// Probability threshold for the simulated delivery failure: a uniform
	// sample above it (~10%) fails the delivery. Stand-in for a real
	// carrier status integration.
	deliveryFailureThreshold = 0.9
)

// Sweeper auto-advances orders that have sat in a shipping state past a time
// threshold. Each order is handled independently; one failure never aborts
// the rest of the run.
type Sweeper struct {
	engine *Service
	repo   interfaces.OrderRepository
	logger logger.Logger

	now       func() time.Time
	randFloat func() float64
}

func NewSweeper(engine *Service, repo interfaces.OrderRepository, logger logger.Logger) *Sweeper {
	return &Sweeper{
		engine:    engine,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// RunSweep scans shipped and out-for-delivery orders and advances the stale
// ones through the fulfillment engine.
func (s *Sweeper) RunSweep(ctx context.Context) interfaces.SweepResult {
	var result interfaces.SweepResult
	now := s.now()

	shipped, err := s.repo.ListByFulfillmentStatus(ctx, domain.FulfillmentShipped)
	if err != nil {
		s.logger.Error("sweep_scan_failed", "Failed to list shipped orders", "", nil, err)
	}
	for _, order := range shipped {
		result.Scanned++
		if !stale(order, now, shippedAdvanceAfter) {
			continue
		}
		s.advance(ctx, &result, interfaces.TransitionCommand{
			OrderID:     order.ID,
			NewStatus:   domain.FulfillmentOutForDelivery,
			Description: "配達員が商品をお持ちしています",
			Location:    "配達営業所",
		})
	}

	outForDelivery, err := s.repo.ListByFulfillmentStatus(ctx, domain.FulfillmentOutForDelivery)
	if err != nil {
		s.logger.Error("sweep_scan_failed", "Failed to list out-for-delivery orders", "", nil, err)
	}
	for _, order := range outForDelivery {
		result.Scanned++
		if !stale(order, now, outForDeliveryAdvanceAfter) {
			continue
		}

		cmd := interfaces.TransitionCommand{OrderID: order.ID}
		if s.randFloat() > deliveryFailureThreshold {
			cmd.NewStatus = domain.FulfillmentDeliveryFailed
			cmd.Description = "ご不在のため持ち帰りました"
			cmd.Location = "配達営業所"
		} else {
			cmd.NewStatus = domain.FulfillmentDelivered
			cmd.Description = "配達が完了しました"
			cmd.Location = deliveryLocation(order)
		}
		s.advance(ctx, &result, cmd)
	}

	s.logger.Info("sweep_completed", "Shipping batch sweep completed", "", map[string]interface{}{
		"scanned":  result.Scanned,
		"advanced": result.Advanced,
		"failed":   result.Failed,
	})
	return result
}

func (s *Sweeper) advance(ctx context.Context, result *interfaces.SweepResult, cmd interfaces.TransitionCommand) {
	if _, err := s.engine.ApplyTransition(ctx, cmd); err != nil {
		result.Failed++
		s.logger.Error("sweep_transition_failed", "Failed to auto-advance order", "", map[string]interface{}{
			"order_id":   cmd.OrderID,
			"new_status": string(cmd.NewStatus),
		}, err)
		return
	}
	result.Advanced++
}

func stale(order *domain.Order, now time.Time, threshold time.Duration) bool {
	if order.LastShippingUpdate == nil {
		return false
	}
	return now.Sub(*order.LastShippingUpdate) >= threshold
}

func deliveryLocation(order *domain.Order) string {
	if order.ShippingAddress != nil && order.ShippingAddress.City != "" {
		return order.ShippingAddress.City
	}
	return "配達先"
}
