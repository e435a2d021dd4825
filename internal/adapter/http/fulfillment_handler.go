package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

type FulfillmentHandler struct {
	service interfaces.FulfillmentService
	sweeper interfaces.BatchSweeper
	logger  logger.Logger
}

func NewFulfillmentHandler(service interfaces.FulfillmentService, sweeper interfaces.BatchSweeper, logger logger.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		service: service,
		sweeper: sweeper,
		logger:  logger,
	}
}

type TransitionRequest struct {
	Status         string `json:"status"`
	Description    string `json:"description,omitempty"`
	Location       string `json:"location,omitempty"`
	CarrierStatus  string `json:"carrier_status,omitempty"`
	PerformedBy    string `json:"performed_by,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type TransitionResponse struct {
	Message string    `json:"message"`
	Order   orderView `json:"order"`
}

// ListFulfillment returns the fulfillment dashboard: orders (optionally
// filtered by status) plus per-status counts.
func (h *FulfillmentHandler) ListFulfillment(w http.ResponseWriter, r *http.Request) {
	status := domain.FulfillmentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, "Unknown fulfillment status", http.StatusBadRequest)
		return
	}

	orders, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("fulfillment_list_failed", "Failed to list orders", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}

	counts, err := h.service.StatusCounts(r.Context())
	if err != nil {
		h.logger.Error("fulfillment_counts_failed", "Failed to count orders", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to count orders", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"orders": toOrderViews(orders),
		"counts": counts,
	})
}

// UpdateFulfillment applies one status transition to an order.
func (h *FulfillmentHandler) UpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := domain.FulfillmentStatus(req.Status)
	if !status.Valid() {
		respondError(w, "Unknown fulfillment status", http.StatusBadRequest)
		return
	}

	result, err := h.service.ApplyTransition(r.Context(), interfaces.TransitionCommand{
		OrderID:        orderID,
		NewStatus:      status,
		Description:    req.Description,
		Location:       req.Location,
		CarrierStatus:  req.CarrierStatus,
		PerformedBy:    req.PerformedBy,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		var invalid *domain.InvalidTransitionError
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			respondError(w, "Order not found", http.StatusNotFound)
		case errors.As(err, &invalid):
			respondError(w, invalid.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("transition_failed", "Failed to apply transition", requestIDFrom(r.Context()), map[string]interface{}{
				"order_id":   orderID,
				"new_status": req.Status,
			}, err)
			respondError(w, "Failed to update fulfillment status", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, TransitionResponse{
		Message: result.Message,
		Order:   toOrderView(result.Order),
	})
}

// GetFulfillment returns an order's shipping history and tracking fields.
func (h *FulfillmentHandler) GetFulfillment(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"order_number":       order.Number,
		"fulfillment_status": string(order.CurrentFulfillmentStatus()),
		"shipping_history":   order.ShippingHistory,
		"tracking_number":    order.TrackingNumber,
		"tracking_url":       order.TrackingURL,
		"shipping_carrier":   order.ShippingCarrier,
		"estimated_delivery": order.EstimatedDelivery,
		"actual_delivery":    order.ActualDelivery,
	})
}

// RunBatch triggers one sweep over in-transit orders.
func (h *FulfillmentHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	result := h.sweeper.RunSweep(r.Context())
	respondJSON(w, http.StatusOK, map[string]int{
		"scanned":  result.Scanned,
		"advanced": result.Advanced,
		"failed":   result.Failed,
	})
}

func (h *FulfillmentHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.FulfillmentStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, "Unknown fulfillment status", http.StatusBadRequest)
		return
	}

	orders, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, toOrderViews(orders))
}

func (h *FulfillmentHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toOrderView(order))
}

type OrderPatchRequest struct {
	Notes           *string `json:"notes,omitempty"`
	TrackingNumber  *string `json:"tracking_number,omitempty"`
	ShippingCarrier *string `json:"shipping_carrier,omitempty"`
}

func (h *FulfillmentHandler) PatchOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req OrderPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.UpdateOrderDetails(r.Context(), orderID, interfaces.OrderDetailsPatch{
		Notes:           req.Notes,
		TrackingNumber:  req.TrackingNumber,
		ShippingCarrier: req.ShippingCarrier,
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, "Order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("order_patch_failed", "Failed to update order", requestIDFrom(r.Context()), map[string]interface{}{
			"order_id": orderID,
		}, err)
		respondError(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, toOrderView(order))
}

func (h *FulfillmentHandler) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, "Order not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("order_load_failed", "Failed to load order", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to load order", http.StatusInternalServerError)
		return nil, false
	}
	return order, true
}
