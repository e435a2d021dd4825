package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanamise/storefront/internal/adapter/logger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Fulfillment *FulfillmentHandler
	Checkout    *CheckoutHandler
	Catalog     *CatalogHandler
	Admin       *AdminHandler
}

// NewRouter wires the public storefront routes and the token-gated admin
// surface under /api.
func NewRouter(h Handlers, adminToken string, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RecoveryMiddleware(log))
	r.Use(LoggingMiddleware(log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Catalog.ListStorefront)
		r.Post("/checkout", h.Checkout.CreateSession)
		r.Post("/webhooks/stripe", h.Checkout.HandleWebhook)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))

			r.Get("/fulfillment", h.Fulfillment.ListFulfillment)
			r.Post("/shipping/batch", h.Fulfillment.RunBatch)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Fulfillment.ListOrders)
				r.Get("/{id}", h.Fulfillment.GetOrder)
				r.Patch("/{id}", h.Fulfillment.PatchOrder)
				r.Get("/{id}/fulfillment", h.Fulfillment.GetFulfillment)
				r.Put("/{id}/fulfillment", h.Fulfillment.UpdateFulfillment)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Catalog.ListAll)
				r.Post("/", h.Catalog.Create)
				r.Get("/{id}", h.Catalog.Get)
				r.Put("/{id}", h.Catalog.Update)
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", h.Admin.ListCoupons)
				r.Post("/", h.Admin.CreateCoupon)
				r.Post("/validate", h.Admin.ValidateCoupon)
				r.Put("/{id}", h.Admin.UpdateCoupon)
				r.Delete("/{id}", h.Admin.DeleteCoupon)
			})

			r.Get("/customers", h.Admin.ListCustomers)
			r.Post("/customers", h.Admin.UpsertCustomer)
			r.Get("/stats", h.Admin.GetStats)
			r.Get("/analytics", h.Admin.GetAnalytics)
		})
	})

	return r
}
