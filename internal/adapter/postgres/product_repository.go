package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

type productRepository struct {
	db DB
}

func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, image, currency, stock, active, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Image, product.Currency, product.Stock, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *productRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE active AND stock > 0 ORDER BY created_at DESC`)
}

func (r *productRepository) list(ctx context.Context, query string) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, image = $5, currency = $6,
		    stock = $7, active = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Image, product.Currency, product.Stock, product.Active,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock lets the database enforce the stock floor, so two
// concurrent checkouts cannot oversell the last unit.
func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	query := `UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`
	tag, err := r.db.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func scanProduct(row Row) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Image, &product.Currency, &product.Stock, &product.Active,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
