package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

// Service creates checkout sessions and turns completed payments into
// orders. Order intake is idempotent on the provider's session id.
type Service struct {
	orders    interfaces.OrderRepository
	products  interfaces.ProductRepository
	customers interfaces.CustomerRepository
	coupons   interfaces.CouponRepository
	gateway   interfaces.PaymentGateway
	logger    logger.Logger

	now func() time.Time
}

func NewService(
	orders interfaces.OrderRepository,
	products interfaces.ProductRepository,
	customers interfaces.CustomerRepository,
	coupons interfaces.CouponRepository,
	gateway interfaces.PaymentGateway,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		customers: customers,
		coupons:   coupons,
		gateway:   gateway,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateSession resolves cart lines against the catalog, applies an optional
// coupon and asks the payment gateway for a redirect URL.
func (s *Service) CreateSession(ctx context.Context, items []interfaces.CartItem, couponCode string) (string, error) {
	if len(items) == 0 {
		return "", errors.New("no items in cart")
	}

	lines := make([]domain.OrderItem, 0, len(items))
	var total int64
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve cart item %s: %w", item.ProductID, err)
		}
		if !product.Sellable() || product.Stock < item.Quantity {
			return "", fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
		}
		lines = append(lines, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
		total += product.Price * int64(item.Quantity)
	}

	var discount int64
	if couponCode != "" {
		coupon, err := s.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			return "", fmt.Errorf("クーポンコードが無効です: %w", err)
		}
		discount, err = coupon.Discount(total, s.now())
		if err != nil {
			return "", err
		}
	}

	url, err := s.gateway.CreateSession(ctx, lines, couponCode, discount)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.Debug("checkout_session_created", "Checkout session created", "", map[string]interface{}{
		"items": len(lines),
		"total": total,
	})
	return url, nil
}

// HandleCompletedSession creates the order for a completed payment. Called
// from the webhook; a replayed event returns the already-created order.
func (s *Service) HandleCompletedSession(ctx context.Context, session interfaces.CompletedSession) (*domain.Order, error) {
	if existing, err := s.orders.GetBySessionID(ctx, session.SessionID); err == nil {
		s.logger.Debug("order_already_processed", "Session already has an order", "", map[string]interface{}{
			"session_id": session.SessionID,
		})
		return existing, nil
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	now := s.now()

	number, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order := domain.NewOrder("order_"+ulid.Make().String(), number, session.SessionID, session.Items, session.AmountTotal, now)
	order.CustomerEmail = session.CustomerEmail
	order.CustomerName = session.CustomerName
	order.CustomerPhone = session.CustomerPhone
	order.ShippingAddress = session.ShippingAddress
	order.DiscountCode = session.DiscountCode

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range session.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("stock_decrement_failed", "Failed to decrement stock", "", map[string]interface{}{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			}, err)
		}
	}

	if session.DiscountCode != "" {
		if err := s.coupons.IncrementUsage(ctx, session.DiscountCode); err != nil {
			s.logger.Error("coupon_usage_failed", "Failed to record coupon usage", "", map[string]interface{}{
				"code": session.DiscountCode,
			}, err)
		}
	}

	s.upsertCustomer(ctx, session, order, now)

	s.logger.Info("order_created", "Order created from completed checkout", "", map[string]interface{}{
		"order_number": order.Number,
		"total":        order.Total,
	})
	return order, nil
}

// ListCoupons returns every coupon for the admin list.
func (s *Service) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *Service) CreateCoupon(ctx context.Context, cmd interfaces.CreateCouponCommand) (*domain.Coupon, error) {
	if cmd.Code == "" {
		return nil, errors.New("coupon code is required")
	}
	if cmd.Type != domain.CouponPercentage && cmd.Type != domain.CouponFixedAmount {
		return nil, fmt.Errorf("unknown coupon type: %s", cmd.Type)
	}
	if cmd.Value <= 0 {
		return nil, errors.New("coupon value must be positive")
	}

	now := s.now()
	validFrom := cmd.ValidFrom
	if validFrom.IsZero() {
		validFrom = now
	}

	coupon := &domain.Coupon{
		ID:            "coup_" + ulid.Make().String(),
		Code:          cmd.Code,
		Description:   cmd.Description,
		Type:          cmd.Type,
		Value:         cmd.Value,
		MinimumAmount: cmd.MinimumAmount,
		UsageLimit:    cmd.UsageLimit,
		ValidFrom:     validFrom,
		ValidUntil:    cmd.ValidUntil,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.Info("coupon_created", "Coupon created", "", map[string]interface{}{
		"code": coupon.Code,
		"type": string(coupon.Type),
	})
	return coupon, nil
}

// UpdateCoupon applies an admin edit to an existing coupon. The code and type
// are fixed at creation; everything else is patchable.
func (s *Service) UpdateCoupon(ctx context.Context, id string, patch interfaces.CouponPatch) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		coupon.Description = *patch.Description
	}
	if patch.Value != nil {
		if *patch.Value <= 0 {
			return nil, errors.New("coupon value must be positive")
		}
		coupon.Value = *patch.Value
	}
	if patch.MinimumAmount != nil {
		coupon.MinimumAmount = *patch.MinimumAmount
	}
	if patch.UsageLimit != nil {
		coupon.UsageLimit = *patch.UsageLimit
	}
	if patch.ValidUntil != nil {
		until := *patch.ValidUntil
		coupon.ValidUntil = &until
	}
	if patch.Active != nil {
		coupon.Active = *patch.Active
	}
	coupon.UpdatedAt = s.now()

	if err := s.coupons.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *Service) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.coupons.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("coupon_deleted", "Coupon deleted", "", map[string]interface{}{
		"coupon_id": id,
	})
	return nil
}

// ValidateCoupon answers the storefront's pre-checkout check. Rejections come
// back as a message, not an error.
func (s *Service) ValidateCoupon(ctx context.Context, code string, orderAmount int64) (*interfaces.CouponValidation, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrCouponNotFound) {
		return &interfaces.CouponValidation{Message: "クーポンコードが無効です"}, nil
	}
	if err != nil {
		return nil, err
	}

	discount, err := coupon.Discount(orderAmount, s.now())
	if err != nil {
		return &interfaces.CouponValidation{Message: err.Error()}, nil
	}
	return &interfaces.CouponValidation{Valid: true, Discount: discount}, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.List(ctx)
}

// UpsertCustomer records or updates a customer from the back office. Order
// totals stay untouched; only checkout intake accumulates those.
func (s *Service) UpsertCustomer(ctx context.Context, cmd interfaces.UpsertCustomerCommand) (*domain.Customer, error) {
	if cmd.Email == "" {
		return nil, errors.New("customer email is required")
	}

	now := s.now()
	customer, err := s.customers.GetByEmail(ctx, cmd.Email)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		customer = &domain.Customer{
			ID:        "cust_" + ulid.Make().String(),
			Email:     cmd.Email,
			CreatedAt: now,
		}
	} else if err != nil {
		return nil, err
	}

	if cmd.Name != "" {
		customer.Name = cmd.Name
	}
	if cmd.Phone != "" {
		customer.Phone = cmd.Phone
	}
	if len(cmd.Addresses) > 0 {
		customer.Addresses = cmd.Addresses
	}
	customer.UpdatedAt = now

	if err := s.customers.Upsert(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}
	return customer, nil
}

func (s *Service) upsertCustomer(ctx context.Context, session interfaces.CompletedSession, order *domain.Order, now time.Time) {
	if session.CustomerEmail == "" {
		return
	}

	customer, err := s.customers.GetByEmail(ctx, session.CustomerEmail)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		customer = &domain.Customer{
			ID:        "cust_" + ulid.Make().String(),
			Email:     session.CustomerEmail,
			Name:      session.CustomerName,
			Phone:     session.CustomerPhone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if session.ShippingAddress != nil {
			customer.Addresses = append(customer.Addresses, domain.CustomerAddress{
				Type:       "shipping",
				Line1:      session.ShippingAddress.Line1,
				Line2:      session.ShippingAddress.Line2,
				City:       session.ShippingAddress.City,
				State:      session.ShippingAddress.State,
				PostalCode: session.ShippingAddress.PostalCode,
				Country:    session.ShippingAddress.Country,
				IsDefault:  true,
			})
		}
	} else if err != nil {
		s.logger.Error("customer_lookup_failed", "Failed to look up customer", "", nil, err)
		return
	}

	customer.RecordOrder(order.Total, now)
	if err := s.customers.Upsert(ctx, customer); err != nil {
		s.logger.Error("customer_upsert_failed", "Failed to upsert customer", "", map[string]interface{}{
			"email": session.CustomerEmail,
		}, err)
	}
}
