package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, email, name, phone, addresses, total_orders, total_spent,
	last_order_date, created_at, updated_at`

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	customer, err := scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// Upsert keys on email so repeat buyers accumulate totals under one record.
func (r *customerRepository) Upsert(ctx context.Context, customer *domain.Customer) error {
	addresses, err := json.Marshal(customer.Addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal customer addresses: %w", err)
	}

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone,
		    addresses = EXCLUDED.addresses, total_orders = EXCLUDED.total_orders,
		    total_spent = EXCLUDED.total_spent,
		    last_order_date = EXCLUDED.last_order_date,
		    updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		customer.ID, customer.Email, customer.Name, customer.Phone, addresses,
		customer.TotalOrders, customer.TotalSpent, customer.LastOrderDate,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

func scanCustomer(row Row) (*domain.Customer, error) {
	var (
		customer  domain.Customer
		addresses []byte
	)
	err := row.Scan(
		&customer.ID, &customer.Email, &customer.Name, &customer.Phone,
		&addresses, &customer.TotalOrders, &customer.TotalSpent,
		&customer.LastOrderDate, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(addresses) > 0 {
		if err := json.Unmarshal(addresses, &customer.Addresses); err != nil {
			return nil, fmt.Errorf("failed to unmarshal customer addresses: %w", err)
		}
	}
	return &customer, nil
}
