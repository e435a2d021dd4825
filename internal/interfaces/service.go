package interfaces

import (
	"context"
	"time"

	"github.com/hanamise/storefront/internal/domain"
)

// TransitionCommand asks the fulfillment engine to move one order to a new
// status. Carrier and TrackingNumber only apply when shipping.
type TransitionCommand struct {
	OrderID        string
	NewStatus      domain.FulfillmentStatus
	Description    string
	Location       string
	CarrierStatus  string
	PerformedBy    string
	Carrier        string
	TrackingNumber string
}

// TransitionResult is the successful outcome of a transition.
type TransitionResult struct {
	Order   *domain.Order
	Message string
}

// SweepResult summarizes one batch sweep run.
type SweepResult struct {
	Scanned  int
	Advanced int
	Failed   int
}

// OrderDetailsPatch is an admin merge-patch for the fields editable outside
// the transition flow; nil fields are left untouched.
type OrderDetailsPatch struct {
	Notes           *string
	TrackingNumber  *string
	ShippingCarrier *string
}

type FulfillmentService interface {
	ApplyTransition(ctx context.Context, cmd TransitionCommand) (*TransitionResult, error)
	ListByStatus(ctx context.Context, status domain.FulfillmentStatus) ([]*domain.Order, error)
	StatusCounts(ctx context.Context) (map[domain.FulfillmentStatus]int, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderDetails(ctx context.Context, id string, patch OrderDetailsPatch) (*domain.Order, error)
}

type BatchSweeper interface {
	RunSweep(ctx context.Context) SweepResult
}

// CartItem is one storefront cart line sent to checkout.
type CartItem struct {
	ProductID string
	Quantity  int
}

// CompletedSession is the payment provider's "payment completed" event,
// already verified and flattened by the payments adapter.
type CompletedSession struct {
	SessionID       string
	CustomerEmail   string
	CustomerName    string
	CustomerPhone   string
	ShippingAddress *domain.Address
	AmountTotal     int64
	Items           []domain.OrderItem
	DiscountCode    string
}

// PaymentGateway is the external checkout provider.
type PaymentGateway interface {
	CreateSession(ctx context.Context, items []domain.OrderItem, couponCode string, discount int64) (string, error)
	VerifyEvent(payload []byte, signature string) (*CompletedSession, error)
}

type CheckoutService interface {
	CreateSession(ctx context.Context, items []CartItem, couponCode string) (string, error)
	HandleCompletedSession(ctx context.Context, session CompletedSession) (*domain.Order, error)
}

type CreateCouponCommand struct {
	Code          string
	Description   string
	Type          domain.CouponType
	Value         int64
	MinimumAmount int64
	UsageLimit    int
	ValidFrom     time.Time
	ValidUntil    *time.Time
}

// CouponValidation is the storefront's answer to "can I use this code".
type CouponValidation struct {
	Valid    bool
	Discount int64
	Message  string
}

// CouponPatch is an admin merge-patch for an existing coupon; nil fields are
// left untouched.
type CouponPatch struct {
	Description   *string
	Value         *int64
	MinimumAmount *int64
	UsageLimit    *int
	ValidUntil    *time.Time
	Active        *bool
}

type PromotionService interface {
	ListCoupons(ctx context.Context) ([]*domain.Coupon, error)
	CreateCoupon(ctx context.Context, cmd CreateCouponCommand) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, patch CouponPatch) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
	ValidateCoupon(ctx context.Context, code string, orderAmount int64) (*CouponValidation, error)
}

// UpsertCustomerCommand records or updates a customer by email, for manual
// back-office entry outside the checkout flow.
type UpsertCustomerCommand struct {
	Email     string
	Name      string
	Phone     string
	Addresses []domain.CustomerAddress
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpsertCustomer(ctx context.Context, cmd UpsertCustomerCommand) (*domain.Customer, error)
}

type CatalogService interface {
	ListActive(ctx context.Context) ([]*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error)
	Update(ctx context.Context, id string, cmd UpdateProductCommand) (*domain.Product, error)
}

type CreateProductCommand struct {
	Name        string
	Description string
	Price       int64
	Image       string
	Currency    string
	Stock       int
}

// UpdateProductCommand carries a merge-patch; nil fields are left untouched.
type UpdateProductCommand struct {
	Name        *string
	Description *string
	Price       *int64
	Image       *string
	Stock       *int
	Active      *bool
}

// AnalyticsReport is the admin dashboard aggregation for one period.
type AnalyticsReport struct {
	Period            string
	TotalRevenue      int64
	TotalOrders       int
	AverageOrderValue float64
	DailySales        []DailySales
	TopProducts       []ProductSales
	StatusCounts      map[domain.FulfillmentStatus]int
}

type DailySales struct {
	Date   string
	Sales  int64
	Orders int
}

type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   int64
}

// StoreStats is the dashboard's headline counters.
type StoreStats struct {
	TotalProducts    int
	TotalOrders      int
	TotalRevenue     int64
	LowStockProducts int
}

type AnalyticsService interface {
	Report(ctx context.Context, period string, now time.Time) (*AnalyticsReport, error)
	Stats(ctx context.Context) (*StoreStats, error)
}
