package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hanamise/storefront/internal/domain"
	"github.com/hanamise/storefront/internal/interfaces"
)

type couponRepository struct {
	db DB
}

func NewCouponRepository(db DB) interfaces.CouponRepository {
	return &couponRepository{db: db}
}

const couponColumns = `id, code, description, type, value, minimum_amount, usage_limit, usage_count,
	valid_from, valid_until, active, created_at, updated_at`

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		coupon.ID, coupon.Code, coupon.Description, coupon.Type, coupon.Value,
		coupon.MinimumAmount, coupon.UsageLimit, coupon.UsageCount,
		coupon.ValidFrom, coupon.ValidUntil, coupon.Active,
		coupon.CreatedAt, coupon.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	coupon, err := scanCoupon(r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}
	return coupon, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := scanCoupon(r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}
	return coupon, nil
}

func (r *couponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	rows, err := r.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*domain.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

func (r *couponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	query := `
		UPDATE coupons SET
			description = $2, value = $3, minimum_amount = $4, usage_limit = $5,
			valid_until = $6, active = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		coupon.ID, coupon.Description, coupon.Value, coupon.MinimumAmount,
		coupon.UsageLimit, coupon.ValidUntil, coupon.Active, coupon.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `UPDATE coupons SET usage_count = usage_count + 1, updated_at = NOW() WHERE code = $1`
	tag, err := r.db.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func scanCoupon(row Row) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := row.Scan(
		&coupon.ID, &coupon.Code, &coupon.Description, &coupon.Type,
		&coupon.Value, &coupon.MinimumAmount, &coupon.UsageLimit,
		&coupon.UsageCount, &coupon.ValidFrom, &coupon.ValidUntil,
		&coupon.Active, &coupon.CreatedAt, &coupon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
