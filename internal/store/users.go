package store

import (
	"context"

	"simple-ecommerce/internal/models"
)

// CreateUser inserts a user; a taken email yields ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, phone, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, user, query,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.IsAdmin)
	return classify(err)
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// ListUsers retrieves every user
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id")
	return users, err
}

// UpdateProfile updates the editable profile fields
func (s *Store) UpdateProfile(ctx context.Context, userID int64, name, phone string) error {
	return affected(s.db.ExecContext(ctx,
		"UPDATE users SET name = $1, phone = $2 WHERE id = $3",
		name, phone, userID))
}

// UpdatePasswordHash replaces a user's password hash
func (s *Store) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return affected(s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2",
		hash, userID))
}
