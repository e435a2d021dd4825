package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	id, number, stripe_session_id, customer_email, customer_name, customer_phone,
	shipping_address, items, total, status, payment_status, fulfillment_status,
	shipping_history, tracking_number, tracking_url, shipping_carrier,
	estimated_delivery, actual_delivery, last_shipping_update,
	discount_code, discount_amount, notes, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	address, err := marshalAddress(order.ShippingAddress)
	if err != nil {
		return err
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	history, err := json.Marshal(order.ShippingHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping history: %w", err)
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err = r.db.Exec(ctx, query,
		order.ID, order.Number, order.StripeSessionID, order.CustomerEmail,
		order.CustomerName, order.CustomerPhone, address, items, order.Total,
		order.Status, order.PaymentStatus, order.FulfillmentStatus, history,
		order.TrackingNumber, order.TrackingURL, order.ShippingCarrier,
		order.EstimatedDelivery, order.ActualDelivery, order.LastShippingUpdate,
		order.DiscountCode, order.DiscountAmount, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE stripe_session_id = $1`, sessionID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) ListByFulfillmentStatus(ctx context.Context, status domain.FulfillmentStatus) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE fulfillment_status = $1 ORDER BY created_at DESC`, status)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) CountByFulfillmentStatus(ctx context.Context) (map[domain.FulfillmentStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT fulfillment_status, COUNT(*) FROM orders GROUP BY fulfillment_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.FulfillmentStatus]int)
	for rows.Next() {
		var status domain.FulfillmentStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *orderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", count+1), nil
}

// Update writes every mutable column in one statement so a fulfillment
// transition (status + history + derived fields) persists atomically.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	address, err := marshalAddress(order.ShippingAddress)
	if err != nil {
		return err
	}
	history, err := json.Marshal(order.ShippingHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping history: %w", err)
	}

	query := `
		UPDATE orders
		SET customer_email = $2, customer_name = $3, customer_phone = $4,
		    shipping_address = $5, status = $6, payment_status = $7,
		    fulfillment_status = $8, shipping_history = $9,
		    tracking_number = $10, tracking_url = $11, shipping_carrier = $12,
		    estimated_delivery = $13, actual_delivery = $14,
		    last_shipping_update = $15, discount_code = $16,
		    discount_amount = $17, notes = $18, updated_at = $19
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		order.ID, order.CustomerEmail, order.CustomerName, order.CustomerPhone,
		address, order.Status, order.PaymentStatus, order.FulfillmentStatus,
		history, order.TrackingNumber, order.TrackingURL, order.ShippingCarrier,
		order.EstimatedDelivery, order.ActualDelivery, order.LastShippingUpdate,
		order.DiscountCode, order.DiscountAmount, order.Notes, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row Row) (*domain.Order, error) {
	var (
		order   domain.Order
		address []byte
		items   []byte
		history []byte
	)
	err := row.Scan(
		&order.ID, &order.Number, &order.StripeSessionID, &order.CustomerEmail,
		&order.CustomerName, &order.CustomerPhone, &address, &items, &order.Total,
		&order.Status, &order.PaymentStatus, &order.FulfillmentStatus, &history,
		&order.TrackingNumber, &order.TrackingURL, &order.ShippingCarrier,
		&order.EstimatedDelivery, &order.ActualDelivery, &order.LastShippingUpdate,
		&order.DiscountCode, &order.DiscountAmount, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(address) > 0 {
		order.ShippingAddress = &domain.Address{}
		if err := json.Unmarshal(address, order.ShippingAddress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
		}
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &order.ShippingHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shipping history: %w", err)
		}
	}
	return &order, nil
}

func marshalAddress(address *domain.Address) ([]byte, error) {
	if address == nil {
		return nil, nil
	}
	data, err := json.Marshal(address)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipping address: %w", err)
	}
	return data, nil
}
