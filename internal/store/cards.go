package store

import (
	"context"

	"simple-ecommerce/internal/models"
)

func (s *Store) ListCards(ctx context.Context) ([]models.StoredCard, error) {
	cards := []models.StoredCard{}
	err := s.db.SelectContext(ctx, &cards, "SELECT * FROM stored_cards ORDER BY id DESC")
	return cards, err
}

func (s *Store) GetCard(ctx context.Context, id int64) (*models.StoredCard, error) {
	var card models.StoredCard
	err := s.db.GetContext(ctx, &card, "SELECT * FROM stored_cards WHERE id = $1", id)
	if err != nil {
		return nil, classify(err)
	}
	return &card, nil
}

// CreateCard inserts a card; the number must already be masked
func (s *Store) CreateCard(ctx context.Context, card *models.StoredCard) error {
	query := `
		INSERT INTO stored_cards (card_holder, card_number, card_last4, expiry_month, expiry_year, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return classify(s.db.GetContext(ctx, card, query,
		card.CardHolder, card.CardNumber, card.CardLast4, card.ExpiryMonth, card.ExpiryYear, card.Balance, card.Status))
}

func (s *Store) UpdateCard(ctx context.Context, card *models.StoredCard) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE stored_cards
		SET card_holder = $1, card_number = $2, card_last4 = $3, expiry_month = $4,
			expiry_year = $5, balance = $6, status = $7
		WHERE id = $8`,
		card.CardHolder, card.CardNumber, card.CardLast4, card.ExpiryMonth,
		card.ExpiryYear, card.Balance, card.Status, card.ID))
}

func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	return affected(s.db.ExecContext(ctx, "DELETE FROM stored_cards WHERE id = $1", id))
}
