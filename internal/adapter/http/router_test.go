package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

const testAdminToken = "test-token"

type fakeFulfillment struct {
	order     *domain.Order
	lastCmd   interfaces.TransitionCommand
	transErr  error
	lastPatch interfaces.OrderDetailsPatch
}

func (f *fakeFulfillment) ApplyTransition(ctx context.Context, cmd interfaces.TransitionCommand) (*interfaces.TransitionResult, error) {
	f.lastCmd = cmd
	if f.transErr != nil {
		return nil, f.transErr
	}
	return &interfaces.TransitionResult{Order: f.order, Message: "配送ステータスを更新しました"}, nil
}

func (f *fakeFulfillment) ListByStatus(ctx context.Context, status domain.FulfillmentStatus) ([]*domain.Order, error) {
	return []*domain.Order{f.order}, nil
}

func (f *fakeFulfillment) StatusCounts(ctx context.Context) (map[domain.FulfillmentStatus]int, error) {
	return map[domain.FulfillmentStatus]int{domain.FulfillmentShipped: 1}, nil
}

func (f *fakeFulfillment) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, domain.ErrOrderNotFound
	}
	return f.order, nil
}

func (f *fakeFulfillment) UpdateOrderDetails(ctx context.Context, id string, patch interfaces.OrderDetailsPatch) (*domain.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, domain.ErrOrderNotFound
	}
	f.lastPatch = patch
	return f.order, nil
}

type fakeSweeper struct {
	runs int
}

func (s *fakeSweeper) RunSweep(ctx context.Context) interfaces.SweepResult {
	s.runs++
	return interfaces.SweepResult{Scanned: 3, Advanced: 2, Failed: 1}
}

type fakeCheckout struct{}

func (fakeCheckout) CreateSession(ctx context.Context, items []interfaces.CartItem, coupon string) (string, error) {
	return "https://checkout.example.com/session", nil
}

func (fakeCheckout) HandleCompletedSession(ctx context.Context, s interfaces.CompletedSession) (*domain.Order, error) {
	return shippedOrder(), nil
}

type fakeCatalog struct {
	products []*domain.Product
}

func (f *fakeCatalog) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) List(ctx context.Context) ([]*domain.Product, error) { return f.products, nil }

func (f *fakeCatalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeCatalog) Create(ctx context.Context, cmd interfaces.CreateProductCommand) (*domain.Product, error) {
	now := time.Now()
	return domain.NewProduct("prod_new", cmd.Name, cmd.Description, cmd.Image, "jpy", cmd.Price, cmd.Stock, now)
}

func (f *fakeCatalog) Update(ctx context.Context, id string, cmd interfaces.UpdateProductCommand) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

type fakePromotions struct{}

func (fakePromotions) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) { return nil, nil }

func (fakePromotions) CreateCoupon(ctx context.Context, cmd interfaces.CreateCouponCommand) (*domain.Coupon, error) {
	return &domain.Coupon{ID: "coup_1", Code: cmd.Code, Type: cmd.Type, Value: cmd.Value, Active: true}, nil
}

func (fakePromotions) UpdateCoupon(ctx context.Context, id string, patch interfaces.CouponPatch) (*domain.Coupon, error) {
	if id != "coup_1" {
		return nil, domain.ErrCouponNotFound
	}
	c := &domain.Coupon{ID: "coup_1", Code: "WELCOME10", Type: domain.CouponPercentage, Value: 10, Active: true}
	if patch.Value != nil {
		c.Value = *patch.Value
	}
	if patch.Active != nil {
		c.Active = *patch.Active
	}
	return c, nil
}

func (fakePromotions) DeleteCoupon(ctx context.Context, id string) error {
	if id != "coup_1" {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (fakePromotions) ValidateCoupon(ctx context.Context, code string, amount int64) (*interfaces.CouponValidation, error) {
	if code == "WELCOME10" {
		return &interfaces.CouponValidation{Valid: true, Discount: amount / 10}, nil
	}
	return &interfaces.CouponValidation{Message: "クーポンコードが無効です"}, nil
}

type fakeCustomers struct{}

func (fakeCustomers) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return nil, nil
}

func (fakeCustomers) UpsertCustomer(ctx context.Context, cmd interfaces.UpsertCustomerCommand) (*domain.Customer, error) {
	return &domain.Customer{ID: "cust_1", Email: cmd.Email, Name: cmd.Name, Phone: cmd.Phone}, nil
}

type fakeAnalytics struct{}

func (fakeAnalytics) Report(ctx context.Context, period string, now time.Time) (*interfaces.AnalyticsReport, error) {
	return &interfaces.AnalyticsReport{Period: period, TotalOrders: 2, TotalRevenue: 4600}, nil
}

func (fakeAnalytics) Stats(ctx context.Context) (*interfaces.StoreStats, error) {
	return &interfaces.StoreStats{TotalProducts: 12, TotalOrders: 34, TotalRevenue: 99000, LowStockProducts: 3}, nil
}

type fakeGateway struct{}

func (fakeGateway) CreateSession(ctx context.Context, items []domain.OrderItem, coupon string, discount int64) (string, error) {
	return "", nil
}

func (fakeGateway) VerifyEvent(payload []byte, signature string) (*interfaces.CompletedSession, error) {
	return nil, nil
}

func shippedOrder() *domain.Order {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	o := domain.NewOrder("order_1", "ORD-000042", "cs_test_1", []domain.OrderItem{
		{ProductID: "prod_tea", ProductName: "お茶セット", Quantity: 2, Price: 1500},
	}, 3000, created)
	o.AppendShippingEvent(domain.ShippingEvent{
		Timestamp: created.Add(time.Hour), Status: domain.FulfillmentShipped,
		Description: "商品を発送しました", PerformedBy: "System",
	})
	return o
}

func testRouter(f *fakeFulfillment, sweeper *fakeSweeper) http.Handler {
	if f.order == nil {
		f.order = shippedOrder()
	}
	log := logger.Nop()
	return NewRouter(Handlers{
		Fulfillment: NewFulfillmentHandler(f, sweeper, log),
		Checkout:    NewCheckoutHandler(fakeCheckout{}, fakeGateway{}, log),
		Catalog:     NewCatalogHandler(&fakeCatalog{}, log),
		Admin:       NewAdminHandler(fakePromotions{}, fakeCustomers{}, fakeAnalytics{}, log),
	}, testAdminToken, log)
}

func adminReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Admin-Token", testAdminToken)
	return req
}

func TestAdminRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	paths := []string{
		"/api/admin/fulfillment",
		"/api/admin/orders",
		"/api/admin/analytics",
		"/api/admin/customers",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Admin-Token", "wrong")
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateFulfillment(t *testing.T) {
	t.Parallel()

	f := &fakeFulfillment{}
	router := testRouter(f, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPut, "/api/admin/orders/order_1/fulfillment",
		`{"status":"out_for_delivery","performed_by":"admin@example.com"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "order_1", f.lastCmd.OrderID)
	require.Equal(t, domain.FulfillmentOutForDelivery, f.lastCmd.NewStatus)
	require.Equal(t, "admin@example.com", f.lastCmd.PerformedBy)

	var resp TransitionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Message)
	require.Equal(t, "ORD-000042", resp.Order.Number)
}

func TestUpdateFulfillmentUnknownStatus(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPut, "/api/admin/orders/order_1/fulfillment",
		`{"status":"teleported"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFulfillmentInvalidTransition(t *testing.T) {
	t.Parallel()

	f := &fakeFulfillment{transErr: &domain.InvalidTransitionError{
		From: domain.FulfillmentShipped, To: domain.FulfillmentProcessing,
	}}
	router := testRouter(f, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPut, "/api/admin/orders/order_1/fulfillment",
		`{"status":"processing"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "遷移は許可されていません")
}

func TestUpdateFulfillmentOrderNotFound(t *testing.T) {
	t.Parallel()

	f := &fakeFulfillment{transErr: domain.ErrOrderNotFound}
	router := testRouter(f, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPut, "/api/admin/orders/order_x/fulfillment",
		`{"status":"processing"}`))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	sweeper := &fakeSweeper{}
	router := testRouter(&fakeFulfillment{}, sweeper)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPost, "/api/admin/shipping/batch", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sweeper.runs)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp["scanned"])
	require.Equal(t, 2, resp["advanced"])
	require.Equal(t, 1, resp["failed"])
}

func TestListFulfillment(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodGet, "/api/admin/fulfillment?status=shipped", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders []orderView    `json:"orders"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	require.Equal(t, "shipped", resp.Orders[0].FulfillmentStatus)
	require.Equal(t, "発送済み", resp.Orders[0].StatusLabel)
	require.Equal(t, 1, resp.Counts["shipped"])
}

func TestListFulfillmentRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodGet, "/api/admin/fulfillment?status=teleported", ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchOrder(t *testing.T) {
	t.Parallel()

	f := &fakeFulfillment{}
	router := testRouter(f, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPatch, "/api/admin/orders/order_1",
		`{"notes":"置き配希望"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.lastPatch.Notes)
	require.Equal(t, "置き配希望", *f.lastPatch.Notes)
	require.Nil(t, f.lastPatch.TrackingNumber)
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(`{"items":[{"product_id":"prod_tea","quantity":2}]}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "https://checkout.example.com/session", resp.URL)
}

func TestCreateCheckoutSessionRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(`{"items":[]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateCouponEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPost, "/api/admin/coupons/validate",
		`{"code":"WELCOME10","order_amount":5000}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateCouponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.Equal(t, int64(500), resp.Discount)
}

func TestAnalyticsEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodGet, "/api/admin/analytics?period=30d", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "30d", resp.Period)
	require.Equal(t, int64(4600), resp.TotalRevenue)
}

func TestUpdateCouponEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPut, "/api/admin/coupons/coup_1",
		`{"active":false,"value":20}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp couponView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Active)
	require.Equal(t, int64(20), resp.Value)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPut, "/api/admin/coupons/coup_nope", `{}`))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCouponEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodDelete, "/api/admin/coupons/coup_1", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp["success"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodDelete, "/api/admin/coupons/coup_nope", ""))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsertCustomerEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPost, "/api/admin/customers",
		`{"email":"hanako@example.com","name":"佐藤花子"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp customerView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "hanako@example.com", resp.Email)
	require.Equal(t, "佐藤花子", resp.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodPost, "/api/admin/customers", `{"name":"名無し"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	router := testRouter(&fakeFulfillment{}, &fakeSweeper{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminReq(http.MethodGet, "/api/admin/stats", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 12, resp.TotalProducts)
	require.Equal(t, 34, resp.TotalOrders)
	require.Equal(t, int64(99000), resp.TotalRevenue)
	require.Equal(t, 3, resp.LowStockProducts)
}
