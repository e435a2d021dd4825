package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

// Service is the product catalog pass-through.
type Service struct {
	repo   interfaces.ProductRepository
	logger logger.Logger
	now    func() time.Time
}

func NewService(repo interfaces.ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, cmd interfaces.CreateProductCommand) (*domain.Product, error) {
	currency := cmd.Currency
	if currency == "" {
		currency = "jpy"
	}

	product, err := domain.NewProduct("prod_"+ulid.Make().String(), cmd.Name, cmd.Description, cmd.Image, currency, cmd.Price, cmd.Stock, s.now())
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product_created", "Product created", "", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *Service) Update(ctx context.Context, id string, cmd interfaces.UpdateProductCommand) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Price != nil {
		product.Price = *cmd.Price
	}
	if cmd.Image != nil {
		product.Image = *cmd.Image
	}
	if cmd.Stock != nil {
		product.Stock = *cmd.Stock
	}
	if cmd.Active != nil {
		product.Active = *cmd.Active
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
