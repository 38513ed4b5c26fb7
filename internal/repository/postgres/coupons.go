package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

type couponRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *sql.DB, logger *zap.Logger) *couponRepository {
	return &couponRepository{
		db:     db,
		logger: logger,
	}
}

func (r *couponRepository) GetAllCoupons(ctx context.Context) ([]domain.Coupon, error) {
	query := `
		SELECT id, coupon_code, product_type, discount_type, discount_value, minimum_amount, end_time, created_at, updated_at
		FROM coupons
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query coupons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var coupon domain.Coupon
		err := rows.Scan(
			&coupon.ID,
			&coupon.CouponCode,
			&coupon.ProductType,
			&coupon.DiscountType,
			&coupon.DiscountValue,
			&coupon.MinimumAmount,
			&coupon.EndTime,
			&coupon.CreatedAt,
			&coupon.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan coupon", zap.Error(err))
			return nil, err
		}
		coupons = append(coupons, coupon)
	}

	return coupons, rows.Err()
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `
		SELECT id, coupon_code, product_type, discount_type, discount_value, minimum_amount, end_time, created_at, updated_at
		FROM coupons
		WHERE coupon_code = $1
	`

	var coupon domain.Coupon
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&coupon.ID,
		&coupon.CouponCode,
		&coupon.ProductType,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.MinimumAmount,
		&coupon.EndTime,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "coupon", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get coupon by code", zap.Error(err))
		return nil, err
	}

	return &coupon, nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `
		INSERT INTO coupons (id, coupon_code, product_type, discount_type, discount_value, minimum_amount, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = now
	}
	if coupon.UpdatedAt.IsZero() {
		coupon.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		coupon.ID,
		coupon.CouponCode,
		coupon.ProductType,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinimumAmount,
		coupon.EndTime,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create coupon", zap.Error(err))
		return err
	}

	return nil
}
