package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/interfaces"
)

type CheckoutHandler struct {
	service interfaces.CheckoutService
	gateway interfaces.PaymentGateway
	logger  logger.Logger
}

func NewCheckoutHandler(service interfaces.CheckoutService, gateway interfaces.PaymentGateway, logger logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		gateway: gateway,
		logger:  logger,
	}
}

type CheckoutRequest struct {
	Items      []CartItemRequest `json:"items"`
	CouponCode string            `json:"coupon_code,omitempty"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// CreateSession starts a payment session for the storefront cart.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		respondError(w, "Cart is empty", http.StatusBadRequest)
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			respondError(w, "Invalid cart item", http.StatusBadRequest)
			return
		}
	}

	items := make([]interfaces.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, interfaces.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	url, err := h.service.CreateSession(r.Context(), items, req.CouponCode)
	if err != nil {
		h.logger.Error("checkout_failed", "Failed to create checkout session", requestIDFrom(r.Context()), nil, err)
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

// HandleWebhook receives payment provider events. The provider retries on
// non-2xx, so only verification failures are rejected.
func (h *CheckoutHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, "Failed to read payload", http.StatusBadRequest)
		return
	}

	session, err := h.gateway.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Error("webhook_rejected", "Webhook verification failed", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Invalid webhook", http.StatusBadRequest)
		return
	}
	if session == nil {
		// Event type we do not handle.
		respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	order, err := h.service.HandleCompletedSession(r.Context(), *session)
	if err != nil {
		h.logger.Error("webhook_order_failed", "Failed to create order from webhook", requestIDFrom(r.Context()), map[string]interface{}{
			"session_id": session.SessionID,
		}, err)
		respondError(w, "Failed to process event", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"received":     "true",
		"order_number": order.Number,
	})
}
