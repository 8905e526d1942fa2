package store

import (
	"context"

	"simple-ecommerce/internal/models"
)

// GetCouponByCode retrieves a coupon by its code
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon, "SELECT * FROM coupons WHERE code = $1", code)
	if err != nil {
		return nil, classify(err)
	}
	return &coupon, nil
}

// GetCouponByID retrieves a coupon by ID
func (s *Store) GetCouponByID(ctx context.Context, id int64) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon, "SELECT * FROM coupons WHERE id = $1", id)
	if err != nil {
		return nil, classify(err)
	}
	return &coupon, nil
}

// ListCoupons retrieves every coupon, newest first
func (s *Store) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons := []models.Coupon{}
	err := s.db.SelectContext(ctx, &coupons, "SELECT * FROM coupons ORDER BY id DESC")
	return coupons, err
}

// CreateCoupon inserts a coupon; a taken code yields ErrDuplicate
func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	query := `
		INSERT INTO coupons (code, discount_type, discount_value, min_amount, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return classify(s.db.GetContext(ctx, coupon, query,
		coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.MinAmount, coupon.ExpiresAt, coupon.IsActive))
}

// UpdateCoupon overwrites every editable coupon column
func (s *Store) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE coupons
		SET code = $1, discount_type = $2, discount_value = $3, min_amount = $4, expires_at = $5, is_active = $6
		WHERE id = $7`,
		coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.MinAmount, coupon.ExpiresAt, coupon.IsActive, coupon.ID))
}

// DeleteCoupon removes a coupon
func (s *Store) DeleteCoupon(ctx context.Context, id int64) error {
	return affected(s.db.ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id))
}
