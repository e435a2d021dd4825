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

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Stock       int    `json:"stock"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ListStorefront returns only sellable products, for the public shop.
func (h *CatalogHandler) ListStorefront(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("product_list_failed", "Failed to list products", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, toProductViews(products))
}

func (h *CatalogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("product_list_failed", "Failed to list products", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, toProductViews(products))
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, "Product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("product_load_failed", "Failed to load product", requestIDFrom(r.Context()), nil, err)
		respondError(w, "Failed to load product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, toProductView(product))
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.Create(r.Context(), interfaces.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Currency:    req.Currency,
		Stock:       req.Stock,
	})
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, toProductView(product))
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), interfaces.UpdateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, toProductView(product))
}
