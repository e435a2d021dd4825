package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
)

type fakeOrderRepo struct {
	orders []*domain.Order
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *domain.Order) error { return nil }

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) GetBySessionID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	return r.orders, nil
}

func (r *fakeOrderRepo) ListByFulfillmentStatus(ctx context.Context, s domain.FulfillmentStatus) ([]*domain.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) CountByFulfillmentStatus(ctx context.Context) (map[domain.FulfillmentStatus]int, error) {
	counts := map[domain.FulfillmentStatus]int{}
	for _, o := range r.orders {
		counts[o.CurrentFulfillmentStatus()]++
	}
	return counts, nil
}

func (r *fakeOrderRepo) NextOrderNumber(ctx context.Context) (string, error) { return "", nil }

func (r *fakeOrderRepo) Update(ctx context.Context, o *domain.Order) error { return nil }

type fakeProductRepo struct {
	products []*domain.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error { return nil }

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (r *fakeProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.products, nil
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return r.products, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error { return nil }

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id string, quantity int) error {
	return nil
}

func orderAt(created time.Time, total int64, items ...domain.OrderItem) *domain.Order {
	o := domain.NewOrder("order_"+created.Format("20060102150405"), "ORD-000001", "", items, total, created)
	return o
}

func productWithStock(id string, stock int) *domain.Product {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p, _ := domain.NewProduct(id, "お茶セット", "", "", "jpy", 1500, stock, now)
	return p
}

func TestReport(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tea := domain.OrderItem{ProductID: "prod_tea", ProductName: "お茶セット", Quantity: 1, Price: 1500}
	cup := domain.OrderItem{ProductID: "prod_cup", ProductName: "湯呑み", Quantity: 2, Price: 800}

	repo := &fakeOrderRepo{orders: []*domain.Order{
		orderAt(now.Add(-2*time.Hour), 1500, tea),
		orderAt(now.Add(-26*time.Hour), 3100, tea, cup),
		// Outside the 7d window, must be excluded.
		orderAt(now.Add(-8*24*time.Hour), 9999, tea),
	}}
	svc := NewService(repo, &fakeProductRepo{}, logger.Nop())

	report, err := svc.Report(context.Background(), "7d", now)
	require.NoError(t, err)

	require.Equal(t, "7d", report.Period)
	require.Equal(t, 2, report.TotalOrders)
	require.Equal(t, int64(4600), report.TotalRevenue)
	require.InDelta(t, 2300.0, report.AverageOrderValue, 0.001)

	require.Len(t, report.DailySales, 2)
	// Sorted ascending by date.
	require.Less(t, report.DailySales[0].Date, report.DailySales[1].Date)

	// Top products sorted by revenue: tea 3000 > cup 1600.
	require.Len(t, report.TopProducts, 2)
	require.Equal(t, "prod_tea", report.TopProducts[0].ProductID)
	require.Equal(t, int64(3000), report.TopProducts[0].Revenue)
	require.Equal(t, 2, report.TopProducts[0].Quantity)
	require.Equal(t, "prod_cup", report.TopProducts[1].ProductID)
	require.Equal(t, int64(1600), report.TopProducts[1].Revenue)

	require.Equal(t, 3, report.StatusCounts[domain.FulfillmentUnfulfilled])
}

func TestReportEmptyPeriod(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeOrderRepo{orders: []*domain.Order{
		orderAt(now.Add(-48*time.Hour), 5000),
	}}
	svc := NewService(repo, &fakeProductRepo{}, logger.Nop())

	report, err := svc.Report(context.Background(), "24h", now)
	require.NoError(t, err)
	require.Zero(t, report.TotalOrders)
	require.Zero(t, report.TotalRevenue)
	require.Zero(t, report.AverageOrderValue)
	require.Empty(t, report.DailySales)
}

func TestReportUnknownPeriodDefaultsToWeek(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeOrderRepo{orders: []*domain.Order{
		orderAt(now.Add(-3*24*time.Hour), 5000),
	}}
	svc := NewService(repo, &fakeProductRepo{}, logger.Nop())

	report, err := svc.Report(context.Background(), "banana", now)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalOrders)
}

func TestStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := &fakeOrderRepo{orders: []*domain.Order{
		orderAt(now.Add(-2*time.Hour), 1500),
		orderAt(now.Add(-400*24*time.Hour), 3100),
	}}
	products := &fakeProductRepo{products: []*domain.Product{
		productWithStock("prod_tea", 50),
		productWithStock("prod_cup", 9),
		productWithStock("prod_pot", 0),
	}}
	svc := NewService(orders, products, logger.Nop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalProducts)
	// No period filter; every order counts.
	require.Equal(t, 2, stats.TotalOrders)
	require.Equal(t, int64(4600), stats.TotalRevenue)
	// Below 10 units counts as low stock.
	require.Equal(t, 2, stats.LowStockProducts)
}
