package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

// AdminHandler covers the remaining back-office surfaces: coupons, customers
// and analytics.
type AdminHandler struct {
	promotions interfaces.PromotionService
	customers  interfaces.CustomerService
	analytics  interfaces.AnalyticsService
	logger     logger.Logger
}

func NewAdminHandler(
	promotions interfaces.PromotionService,
	customers interfaces.CustomerService,
	analytics interfaces.AnalyticsService,
	logger logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		promotions: promotions,
		customers:  customers,
		analytics:  analytics,
		logger:     logger,
	}
}

func (h *AdminHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.promotions.ListCoupons(r.Context())
	if err != nil {
		h.logger.Error("coupon_list_failed", "Failed to list coupons", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to list coupons", http.StatusInternalServerError)
		return
	}

	views := make([]couponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, toCouponView(c))
	}
	respondJSON(w, http.StatusOK, views)
}

type CreateCouponRequest struct {
	Code          string     `json:"code"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	Value         int64      `json:"value"`
	MinimumAmount int64      `json:"minimum_amount,omitempty"`
	UsageLimit    int        `json:"usage_limit,omitempty"`
	ValidFrom     *time.Time `json:"valid_from,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
}

func (h *AdminHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := interfaces.CreateCouponCommand{
		Code:          req.Code,
		Description:   req.Description,
		Type:          domain.CouponType(req.Type),
		Value:         req.Value,
		MinimumAmount: req.MinimumAmount,
		UsageLimit:    req.UsageLimit,
		ValidUntil:    req.ValidUntil,
	}
	if req.ValidFrom != nil {
		cmd.ValidFrom = *req.ValidFrom
	}

	coupon, err := h.promotions.CreateCoupon(r.Context(), cmd)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, toCouponView(coupon))
}

type UpdateCouponRequest struct {
	Description   *string    `json:"description,omitempty"`
	Value         *int64     `json:"value,omitempty"`
	MinimumAmount *int64     `json:"minimum_amount,omitempty"`
	UsageLimit    *int       `json:"usage_limit,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

func (h *AdminHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req UpdateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	coupon, err := h.promotions.UpdateCoupon(r.Context(), chi.URLParam(r, "id"), interfaces.CouponPatch{
		Description:   req.Description,
		Value:         req.Value,
		MinimumAmount: req.MinimumAmount,
		UsageLimit:    req.UsageLimit,
		ValidUntil:    req.ValidUntil,
		Active:        req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			respondError(w, "Coupon not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, toCouponView(coupon))
}

func (h *AdminHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.promotions.DeleteCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			respondError(w, "Coupon not found", http.StatusNotFound)
			return
		}
		h.logger.Error("coupon_delete_failed", "Failed to delete coupon", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to delete coupon", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type ValidateCouponRequest struct {
	Code        string `json:"code"`
	OrderAmount int64  `json:"order_amount"`
}

type ValidateCouponResponse struct {
	Valid    bool   `json:"valid"`
	Discount int64  `json:"discount,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (h *AdminHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		respondError(w, "Coupon code is required", http.StatusBadRequest)
		return
	}

	validation, err := h.promotions.ValidateCoupon(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		h.logger.Error("coupon_validate_failed", "Failed to validate coupon", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to validate coupon", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, ValidateCouponResponse{
		Valid:    validation.Valid,
		Discount: validation.Discount,
		Message:  validation.Message,
	})
}

func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error("customer_list_failed", "Failed to list customers", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to list customers", http.StatusInternalServerError)
		return
	}

	views := make([]customerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, toCustomerView(c))
	}
	respondJSON(w, http.StatusOK, views)
}

type UpsertCustomerRequest struct {
	Email     string                   `json:"email"`
	Name      string                   `json:"name,omitempty"`
	Phone     string                   `json:"phone,omitempty"`
	Addresses []domain.CustomerAddress `json:"addresses,omitempty"`
}

// UpsertCustomer records or updates a customer by email from the back office.
func (h *AdminHandler) UpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req UpsertCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		respondError(w, "Customer email is required", http.StatusBadRequest)
		return
	}

	customer, err := h.customers.UpsertCustomer(r.Context(), interfaces.UpsertCustomerCommand{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Addresses: req.Addresses,
	})
	if err != nil {
		h.logger.Error("customer_upsert_failed", "Failed to upsert customer", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to save customer", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerView(customer))
}

type StatsResponse struct {
	TotalProducts    int   `json:"total_products"`
	TotalOrders      int   `json:"total_orders"`
	TotalRevenue     int64 `json:"total_revenue"`
	LowStockProducts int   `json:"low_stock_products"`
}

// GetStats returns the dashboard's headline counters.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats_failed", "Failed to compute store stats", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, StatsResponse{
		TotalProducts:    stats.TotalProducts,
		TotalOrders:      stats.TotalOrders,
		TotalRevenue:     stats.TotalRevenue,
		LowStockProducts: stats.LowStockProducts,
	})
}

type AnalyticsResponse struct {
	Period            string                           `json:"period"`
	TotalRevenue      int64                            `json:"total_revenue"`
	TotalOrders       int                              `json:"total_orders"`
	AverageOrderValue float64                          `json:"average_order_value"`
	DailySales        []DailySalesView                 `json:"daily_sales"`
	TopProducts       []ProductSalesView               `json:"top_products"`
	StatusCounts      map[domain.FulfillmentStatus]int `json:"status_counts"`
}

type DailySalesView struct {
	Date   string `json:"date"`
	Sales  int64  `json:"sales"`
	Orders int    `json:"orders"`
}

type ProductSalesView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

func (h *AdminHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "7d"
	}

	report, err := h.analytics.Report(r.Context(), period, time.Now())
	if err != nil {
		h.logger.Error("analytics_failed", "Failed to build analytics report", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	resp := AnalyticsResponse{
		Period:            report.Period,
		TotalRevenue:      report.TotalRevenue,
		TotalOrders:       report.TotalOrders,
		AverageOrderValue: report.AverageOrderValue,
		DailySales:        make([]DailySalesView, 0, len(report.DailySales)),
		TopProducts:       make([]ProductSalesView, 0, len(report.TopProducts)),
		StatusCounts:      report.StatusCounts,
	}
	for _, d := range report.DailySales {
		resp.DailySales = append(resp.DailySales, DailySalesView{Date: d.Date, Sales: d.Sales, Orders: d.Orders})
	}
	for _, p := range report.TopProducts {
		resp.TopProducts = append(resp.TopProducts, ProductSalesView{
			ProductID: p.ProductID, Name: p.Name, Quantity: p.Quantity, Revenue: p.Revenue,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
