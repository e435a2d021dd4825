package interfaces

import (
	"context"

	"github.com/hanamise/storefront/internal/domain"
)

// OrderRepository owns the order aggregate. GetByID returns
// domain.ErrOrderNotFound when the id is unknown; Update bumps updated_at.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByFulfillmentStatus(ctx context.Context, status domain.FulfillmentStatus) ([]*domain.Order, error)
	CountByFulfillmentStatus(ctx context.Context) (map[domain.FulfillmentStatus]int, error)
	NextOrderNumber(ctx context.Context) (string, error)
	Update(ctx context.Context, order *domain.Order) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	DecrementStock(ctx context.Context, id string, quantity int) error
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	GetByID(ctx context.Context, id string) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]*domain.Coupon, error)
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, code string) error
}

type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Upsert(ctx context.Context, customer *domain.Customer) error
}
