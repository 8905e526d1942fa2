package service

import (
	"context"
	"testing"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/service/servicetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestQuoteCoupon(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		coupon   models.Coupon
		total    decimal.Decimal
		discount decimal.Decimal
		final    decimal.Decimal
		kind     apperr.Kind
		fails    bool
	}{
		{
			name:     "percentage",
			coupon:   models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: d(10), IsActive: true},
			total:    d(2000),
			discount: d(200),
			final:    d(1800),
		},
		{
			name:     "fixed",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: d(100), IsActive: true, ExpiresAt: &future},
			total:    d(1300),
			discount: d(100),
			final:    d(1200),
		},
		{
			name:     "fixed capped at total",
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: d(500), IsActive: true},
			total:    d(300),
			discount: d(300),
			final:    d(0),
		},
		{
			name:     "percentage rounded to cents",
			coupon:   models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: d(15), IsActive: true},
			total:    decimal.RequireFromString("99.99"),
			discount: decimal.RequireFromString("15"),
			final:    decimal.RequireFromString("84.99"),
		},
		{
			name:   "below minimum",
			coupon: models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: d(50), MinAmount: d(999), IsActive: true},
			total:  d(998),
			fails:  true,
			kind:   apperr.KindMinAmount,
		},
		{
			name:   "expired",
			coupon: models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: d(50), ExpiresAt: &past, IsActive: true},
			total:  d(100),
			fails:  true,
			kind:   apperr.KindExpired,
		},
		{
			name:   "inactive",
			coupon: models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: d(50)},
			total:  d(100),
			fails:  true,
			kind:   apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := tt.coupon
			quote, err := quoteCoupon(&coupon, tt.total, now)
			if tt.fails {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, tt.kind))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.discount.Equal(quote.Discount), "discount %s", quote.Discount)
			assert.True(t, tt.final.Equal(quote.FinalTotal), "final %s", quote.FinalTotal)
		})
	}
}

func TestMinAmountIsInclusive(t *testing.T) {
	coupon := &models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: d(10), MinAmount: d(999), IsActive: true}
	_, err := quoteCoupon(coupon, d(999), time.Now())
	assert.NoError(t, err)
}

func TestValidateLooksUpCodeCaseInsensitively(t *testing.T) {
	repo := servicetest.NewMemStore()
	svc := NewCouponService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CouponRequest{Code: "save10", DiscountType: "percentage", DiscountValue: d(10)})
	require.NoError(t, err)

	quote, err := svc.Validate(ctx, " Save10 ", d(2000))
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", quote.Coupon.Code)
	assert.True(t, d(1800).Equal(quote.FinalTotal))

	_, err = svc.Validate(ctx, "NOPE", d(2000))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCouponAdmin(t *testing.T) {
	repo := servicetest.NewMemStore()
	svc := NewCouponService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CouponRequest{Code: "X", DiscountType: "bogus", DiscountValue: d(1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, &CouponRequest{Code: "X", DiscountType: "percentage", DiscountValue: d(150)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	inactive := models.Flag(false)
	coupon, err := svc.Create(ctx, &CouponRequest{
		Code: "X", DiscountType: "fixed", DiscountValue: d(5), ExpiresAt: "2030-01-31", IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, coupon.IsActive)
	require.NotNil(t, coupon.ExpiresAt)
	assert.Equal(t, 31, coupon.ExpiresAt.Day())

	_, err = svc.Create(ctx, &CouponRequest{Code: "x", DiscountType: "fixed", DiscountValue: d(5)})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	updated, err := svc.Update(ctx, coupon.ID, &CouponRequest{Code: "Y", DiscountType: "fixed", DiscountValue: d(7)})
	require.NoError(t, err)
	assert.True(t, updated.IsActive, "is_active defaults to true when omitted")

	got, err := svc.Get(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, "Y", got.Code)

	require.NoError(t, svc.Delete(ctx, coupon.ID))
	assert.True(t, apperr.Is(svc.Delete(ctx, coupon.ID), apperr.KindNotFound))
}

func TestParseExpiry(t *testing.T) {
	none, err := parseExpiry("")
	require.NoError(t, err)
	assert.Nil(t, none)

	day, err := parseExpiry("2030-05-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 10, 23, 59, 59, 0, time.UTC), *day)

	local, err := parseExpiry("2030-05-10T08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, local.Hour())

	_, err = parseExpiry("tomorrow")
	assert.Error(t, err)
}
