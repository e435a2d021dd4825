package fulfillment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

// Service is the fulfillment engine: it validates a requested status move,
// appends the shipping history event, applies status-dependent derived
// fields, persists the order and fires the post-commit notification.
type Service struct {
	repo      interfaces.OrderRepository
	publisher interfaces.ShippingUpdatePublisher
	logger    logger.Logger

	now     func() time.Time
	randInt func() int

	locks orderLocks
}

func NewService(repo interfaces.OrderRepository, publisher interfaces.ShippingUpdatePublisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		randInt:   rand.Int,
	}
}

// ApplyTransition moves one order to cmd.NewStatus. Either the full
// transition (status, history event, derived fields, persistence) happens or
// nothing does; the notification is best-effort and outside that contract.
func (s *Service) ApplyTransition(ctx context.Context, cmd interfaces.TransitionCommand) (*interfaces.TransitionResult, error) {
	unlock := s.locks.lock(cmd.OrderID)
	defer unlock()

	order, err := s.repo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	current := order.CurrentFulfillmentStatus()
	if !domain.CanTransition(current, cmd.NewStatus) {
		return nil, &domain.InvalidTransitionError{From: current, To: cmd.NewStatus}
	}

	now := s.now()

	performedBy := cmd.PerformedBy
	if performedBy == "" {
		performedBy = "System"
	}
	description := cmd.Description
	if description == "" {
		description = domain.StatusChangeDescription(current, cmd.NewStatus)
	}

	event := domain.ShippingEvent{
		Timestamp:     now,
		Status:        cmd.NewStatus,
		Description:   description,
		Location:      cmd.Location,
		CarrierStatus: cmd.CarrierStatus,
		PerformedBy:   performedBy,
	}
	order.AppendShippingEvent(event)

	switch cmd.NewStatus {
	case domain.FulfillmentDelivered:
		delivered := now
		order.ActualDelivery = &delivered
		order.Status = domain.OrderStatusCompleted
	case domain.FulfillmentCancelled:
		order.Status = domain.OrderStatusCancelled
	case domain.FulfillmentRefunded:
		order.Status = domain.OrderStatusRefunded
		order.PaymentStatus = domain.PaymentRefunded
	}

	if cmd.NewStatus == domain.FulfillmentShipped && cmd.Carrier != "" {
		s.applyCarrier(order, cmd, now)
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderUpdateFailed, err)
	}

	s.publishUpdate(ctx, order, current, event)

	return &interfaces.TransitionResult{
		Order:   order,
		Message: fmt.Sprintf("配送ステータスを%sに更新しました", cmd.NewStatus.Label()),
	}, nil
}

// applyCarrier fills tracking fields when an order ships. Folding this into
// the same update keeps the transition a single write.
func (s *Service) applyCarrier(order *domain.Order, cmd interfaces.TransitionCommand, now time.Time) {
	tracking := cmd.TrackingNumber
	if tracking == "" {
		tracking = domain.GenerateTrackingNumber(cmd.Carrier, s.randInt())
	}
	order.TrackingNumber = tracking
	order.ShippingCarrier = cmd.Carrier
	order.TrackingURL = domain.TrackingURL(cmd.Carrier, tracking)
	if est := domain.EstimatedDelivery(cmd.Carrier, false, now); !est.IsZero() {
		order.EstimatedDelivery = &est
	}
}

func (s *Service) publishUpdate(ctx context.Context, order *domain.Order, old domain.FulfillmentStatus, event domain.ShippingEvent) {
	msg := interfaces.ShippingUpdateMessage{
		OrderID:        order.ID,
		OrderNumber:    order.Number,
		CustomerEmail:  order.CustomerEmail,
		OldStatus:      old,
		NewStatus:      event.Status,
		Description:    event.Description,
		TrackingNumber: order.TrackingNumber,
		TrackingURL:    order.TrackingURL,
		PerformedBy:    event.PerformedBy,
		Timestamp:      event.Timestamp,
	}
	if order.EstimatedDelivery != nil {
		msg.EstimatedDelivery = order.EstimatedDelivery.Format("2006-01-02")
	}

	if err := s.publisher.PublishShippingUpdate(ctx, msg); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish shipping update", "", map[string]interface{}{
			"order_id":   order.ID,
			"new_status": string(event.Status),
		}, err)
	}
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByStatus(ctx context.Context, status domain.FulfillmentStatus) ([]*domain.Order, error) {
	if status == "" {
		return s.repo.List(ctx)
	}
	return s.repo.ListByFulfillmentStatus(ctx, status)
}

func (s *Service) StatusCounts(ctx context.Context) (map[domain.FulfillmentStatus]int, error) {
	return s.repo.CountByFulfillmentStatus(ctx)
}

// UpdateOrderDetails applies an admin edit to the free-form order fields.
// Shipping history is untouched; this is not a status transition.
func (s *Service) UpdateOrderDetails(ctx context.Context, id string, patch interfaces.OrderDetailsPatch) (*domain.Order, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Notes != nil {
		order.Notes = *patch.Notes
	}
	if patch.TrackingNumber != nil {
		order.TrackingNumber = *patch.TrackingNumber
	}
	if patch.ShippingCarrier != nil {
		order.ShippingCarrier = *patch.ShippingCarrier
	}
	if order.ShippingCarrier != "" && order.TrackingNumber != "" {
		order.TrackingURL = domain.TrackingURL(order.ShippingCarrier, order.TrackingNumber)
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderUpdateFailed, err)
	}
	return order, nil
}

// orderLocks serializes transitions per order id. Entries are refcounted and
// dropped once the last holder unlocks, so the map stays bounded by the
// number of in-flight operations rather than the number of orders ever seen.
type orderLocks struct {
	mu    sync.Mutex
	locks map[string]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func (l *orderLocks) lock(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*orderLock)
	}
	e, ok := l.locks[id]
	if !ok {
		e = &orderLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
