package store

import (
	"context"

	"simple-ecommerce/internal/models"
)

// GetAddress retrieves the user's saved address
func (s *Store) GetAddress(ctx context.Context, userID int64) (*models.Address, error) {
	var addr models.Address
	err := s.db.GetContext(ctx, &addr, "SELECT * FROM addresses WHERE user_id = $1", userID)
	if err != nil {
		return nil, classify(err)
	}
	return &addr, nil
}

// UpsertAddress creates or replaces the user's single address
func (s *Store) UpsertAddress(ctx context.Context, addr *models.Address) error {
	query := `
		INSERT INTO addresses (user_id, full_name, phone, address_line1, address_line2,
			city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country,
			updated_at = NOW()
		RETURNING id, updated_at`

	return classify(s.db.GetContext(ctx, addr, query,
		addr.UserID, addr.FullName, addr.Phone, addr.AddressLine1, addr.AddressLine2,
		addr.City, addr.State, addr.PostalCode, addr.Country))
}
