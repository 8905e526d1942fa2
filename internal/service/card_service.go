package service

import (
	"context"
	"strings"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cardStatusActive = "active"

// CardService manages the demo cards shown in the admin panel. Full card
// numbers and CVVs are never stored.
type CardService struct {
	repo   CardRepository
	logger *zap.Logger
}

func NewCardService(repo CardRepository) *CardService {
	return &CardService{repo: repo, logger: util.GetLogger()}
}

// CardRequest represents an admin card submission. cvv is accepted and dropped.
type CardRequest struct {
	CardNumber  string          `json:"card_number"`
	CardHolder  string          `json:"card_holder"`
	ExpiryMonth string          `json:"expiry_month"`
	ExpiryYear  string          `json:"expiry_year"`
	CVV         string          `json:"cvv"`
	Balance     decimal.Decimal `json:"balance"`
	Status      string          `json:"status"`
}

// maskCardNumber keeps only the last four digits visible
func maskCardNumber(digits string) string {
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// toCard builds the stored form. When existing is set and the submitted
// number is blank or already masked, the stored number is kept.
func (r *CardRequest) toCard(existing *models.StoredCard) (*models.StoredCard, error) {
	card := &models.StoredCard{
		CardHolder:  strings.TrimSpace(r.CardHolder),
		ExpiryMonth: strings.TrimSpace(r.ExpiryMonth),
		ExpiryYear:  strings.TrimSpace(r.ExpiryYear),
		Balance:     r.Balance.Round(2),
		Status:      strings.TrimSpace(r.Status),
	}
	if card.CardHolder == "" || card.ExpiryMonth == "" || card.ExpiryYear == "" {
		return nil, apperr.Validation("Card holder and expiry required")
	}
	if card.Status == "" {
		card.Status = cardStatusActive
	}
	if card.Balance.IsNegative() {
		return nil, apperr.Validation("Balance must not be negative")
	}

	raw := strings.TrimSpace(r.CardNumber)
	if existing != nil && (raw == "" || strings.Contains(raw, "*")) {
		card.CardNumber = existing.CardNumber
		card.CardLast4 = existing.CardLast4
		return card, nil
	}

	digits := digitsOnly(raw)
	if len(digits) < 12 || len(digits) > 19 {
		return nil, apperr.Validation("Card number must be 12 to 19 digits").WithCode("INVALID_CARD")
	}
	card.CardNumber = maskCardNumber(digits)
	card.CardLast4 = digits[len(digits)-4:]
	return card, nil
}

func (s *CardService) List(ctx context.Context) ([]models.StoredCard, error) {
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching cards", err)
	}
	return cards, nil
}

func (s *CardService) Get(ctx context.Context, id int64) (*models.StoredCard, error) {
	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, translate(err, "Card not found", "Error fetching card")
	}
	return card, nil
}

func (s *CardService) Create(ctx context.Context, req *CardRequest) (*models.StoredCard, error) {
	card, err := req.toCard(nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return nil, apperr.Internal("Error creating card", err)
	}
	s.logger.Info("Card stored", zap.Int64("card_id", card.ID), zap.String("last4", card.CardLast4))
	return card, nil
}

func (s *CardService) Update(ctx context.Context, id int64, req *CardRequest) (*models.StoredCard, error) {
	existing, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, translate(err, "Card not found", "Error updating card")
	}

	card, err := req.toCard(existing)
	if err != nil {
		return nil, err
	}
	card.ID = id
	card.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, translate(err, "Card not found", "Error updating card")
	}
	return card, nil
}

func (s *CardService) Delete(ctx context.Context, id int64) error {
	return translate(s.repo.DeleteCard(ctx, id), "Card not found", "Error deleting card")
}
