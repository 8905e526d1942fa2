package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// CouponService validates coupons against cart totals and manages them
type CouponService struct {
	repo   CouponRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewCouponService(repo CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now, logger: util.GetLogger()}
}

// CouponQuote is the discount a coupon grants on a given total
type CouponQuote struct {
	Coupon     *models.Coupon  `json:"coupon"`
	Discount   decimal.Decimal `json:"discount"`
	FinalTotal decimal.Decimal `json:"final_total"`
}

// ValidateRequest represents a coupon check from the checkout page
type ValidateRequest struct {
	Code      string          `json:"code"`
	CartTotal decimal.Decimal `json:"cart_total"`
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate looks the code up and prices it against cartTotal
func (s *CouponService) Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*CouponQuote, error) {
	ctx, span := util.StartSpan(ctx, "CouponService.Validate")
	defer span.End()

	code = normalizeCode(code)
	if code == "" {
		return nil, apperr.Validation("Coupon code required")
	}

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		util.CouponValidationsTotal.WithLabelValues("not_found").Inc()
		return nil, translate(err, "Invalid coupon", "Error validating coupon")
	}

	quote, err := quoteCoupon(coupon, cartTotal, s.now())
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			util.CouponValidationsTotal.WithLabelValues(strings.ToLower(appErr.Code)).Inc()
		}
		return nil, err
	}

	util.CouponValidationsTotal.WithLabelValues("valid").Inc()
	return quote, nil
}

// quoteCoupon applies a coupon to total. The discount never exceeds total.
func quoteCoupon(coupon *models.Coupon, total decimal.Decimal, now time.Time) (*CouponQuote, error) {
	if !coupon.IsActive {
		return nil, apperr.NotFound("Invalid coupon")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, apperr.Expired("Coupon expired")
	}
	if total.LessThan(coupon.MinAmount) {
		return nil, apperr.MinAmount(fmt.Sprintf("Minimum order amount for this coupon is %s", coupon.MinAmount.StringFixed(2)))
	}

	discount := coupon.DiscountValue
	if coupon.DiscountType == models.DiscountPercentage {
		discount = total.Mul(coupon.DiscountValue).Div(hundred)
	}
	if discount.GreaterThan(total) {
		discount = total
	}
	discount = discount.Round(2)

	return &CouponQuote{
		Coupon:     coupon,
		Discount:   discount,
		FinalTotal: total.Sub(discount),
	}, nil
}

// CouponRequest represents an admin coupon submission. expires_at accepts
// RFC 3339, a datetime-local value or a bare date (valid through that day).
type CouponRequest struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	ExpiresAt     string          `json:"expires_at"`
	IsActive      *models.Flag    `json:"is_active"`
}

func (r *CouponRequest) toCoupon() (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:          normalizeCode(r.Code),
		DiscountType:  strings.ToLower(strings.TrimSpace(r.DiscountType)),
		DiscountValue: r.DiscountValue.Round(2),
		MinAmount:     r.MinAmount.Round(2),
		IsActive:      r.IsActive == nil || bool(*r.IsActive),
	}

	if coupon.Code == "" {
		return nil, apperr.Validation("Coupon code required")
	}
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		if !coupon.DiscountValue.IsPositive() || coupon.DiscountValue.GreaterThan(hundred) {
			return nil, apperr.Validation("Percentage discount must be between 0 and 100")
		}
	case models.DiscountFixed:
		if !coupon.DiscountValue.IsPositive() {
			return nil, apperr.Validation("Discount value must be positive")
		}
	default:
		return nil, apperr.Validation("discount_type must be percentage or fixed")
	}
	if coupon.MinAmount.IsNegative() {
		return nil, apperr.Validation("Minimum amount must not be negative")
	}

	expiresAt, err := parseExpiry(r.ExpiresAt)
	if err != nil {
		return nil, apperr.Validation("Invalid expires_at")
	}
	coupon.ExpiresAt = expiresAt

	return coupon, nil
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	t = t.Add(24*time.Hour - time.Second)
	return &t, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.ListCoupons(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching coupons", err)
	}
	return coupons, nil
}

func (s *CouponService) Get(ctx context.Context, id int64) (*models.Coupon, error) {
	coupon, err := s.repo.GetCouponByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Coupon not found", "Error fetching coupon")
	}
	return coupon, nil
}

func (s *CouponService) Create(ctx context.Context, req *CouponRequest) (*models.Coupon, error) {
	coupon, err := req.toCoupon()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Coupon code already exists").WithCode("COUPON_EXISTS")
		}
		return nil, apperr.Internal("Error creating coupon", err)
	}
	s.logger.Info("Coupon created", zap.String("code", coupon.Code))
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id int64, req *CouponRequest) (*models.Coupon, error) {
	coupon, err := req.toCoupon()
	if err != nil {
		return nil, err
	}
	coupon.ID = id
	if err := s.repo.UpdateCoupon(ctx, coupon); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Coupon code already exists").WithCode("COUPON_EXISTS")
		}
		return nil, translate(err, "Coupon not found", "Error updating coupon")
	}
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return translate(s.repo.DeleteCoupon(ctx, id), "Coupon not found", "Error deleting coupon")
}
