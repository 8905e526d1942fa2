package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentMethodCard requires card details on checkout
const PaymentMethodCard = "card"

// CardDetails is the card form submitted on checkout. It is validated for
// shape only and never persisted.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVV      string `json:"cvv"`
}

// ChargeRequest represents a payment for a checkout
type ChargeRequest struct {
	Method string
	Amount decimal.Decimal
	Card   *CardDetails
}

// PaymentService processes payments (mocked: every well-formed payment succeeds)
type PaymentService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{logger: util.GetLogger(), now: time.Now}
}

// Charge validates the payment and returns a provider reference
func (ps *PaymentService) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	_, span := util.StartSpan(ctx, "PaymentService.Charge")
	defer span.End()

	util.PaymentAttemptsTotal.WithLabelValues(req.Method).Inc()

	if req.Method == PaymentMethodCard {
		if err := ps.validateCard(req.Card); err != nil {
			util.PaymentFailedTotal.WithLabelValues("invalid_card").Inc()
			return "", err
		}
	}

	ref := fmt.Sprintf("TXN-%s", strings.ToUpper(uuid.New().String()[:8]))

	ps.logger.Info("Payment succeeded",
		zap.String("method", req.Method),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("tx_id", ref))

	return ref, nil
}

func (ps *PaymentService) validateCard(card *CardDetails) error {
	if card == nil {
		return apperr.Validation("Card details required").WithCode("INVALID_CARD")
	}

	number := digitsOnly(card.Number)
	if number == "" || len(number) < 12 || len(number) > 19 {
		return apperr.Validation("Invalid card number").WithCode("INVALID_CARD")
	}

	month, err := strconv.Atoi(strings.TrimSpace(card.ExpMonth))
	if err != nil || month < 1 || month > 12 {
		return apperr.Validation("Invalid card expiry month").WithCode("INVALID_CARD")
	}

	year, err := strconv.Atoi(strings.TrimSpace(card.ExpYear))
	if err != nil || year < 0 {
		return apperr.Validation("Invalid card expiry year").WithCode("INVALID_CARD")
	}
	if year < 100 {
		year += 2000
	}
	now := ps.now()
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return apperr.Validation("Card expired").WithCode("INVALID_CARD")
	}

	cvv := strings.TrimSpace(card.CVV)
	if len(cvv) < 3 || len(cvv) > 4 || digitsOnly(cvv) != cvv {
		return apperr.Validation("Invalid card CVV").WithCode("INVALID_CARD")
	}

	return nil
}

// digitsOnly strips spaces and dashes; any other character yields "".
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return ""
		}
	}
	return b.String()
}
