package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name        string
	description string
	price       int64
	category    string
	stock       int
}

var seedCategories = []string{"Electronics", "Clothing", "Books"}

var seedProducts = []seedProduct{
	{"Smartphone", "Basic budget smartphone", 14999, "Electronics", 50},
	{"Headphones", "Wireless over-ear headphones", 2999, "Electronics", 100},
	{"T-Shirt", "Cotton round-neck t-shirt", 499, "Clothing", 200},
	{"Novel", "Best-selling fiction novel", 399, "Books", 80},
}

const seedImageURL = "https://via.placeholder.com/150"

// Seed inserts the demo accounts and catalog into empty tables. Tables that
// already hold rows are left untouched.
func (s *Store) Seed(ctx context.Context, adminHash, userHash string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var users int
	if err := tx.GetContext(ctx, &users, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if users == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (name, email, password_hash, is_admin) VALUES
				('Admin', 'admin@example.com', $1, TRUE),
				('Test User', 'user@example.com', $2, FALSE)`,
			adminHash, userHash); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
	}

	var categories int
	if err := tx.GetContext(ctx, &categories, "SELECT COUNT(*) FROM categories"); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if categories == 0 {
		ids := make(map[string]int64, len(seedCategories))
		for _, name := range seedCategories {
			var id int64
			if err := tx.GetContext(ctx, &id,
				"INSERT INTO categories (name) VALUES ($1) RETURNING id", name); err != nil {
				return fmt.Errorf("failed to seed category %s: %w", name, err)
			}
			ids[name] = id
		}
		for _, p := range seedProducts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (name, description, price, category_id, image_url, stock)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				p.name, p.description, decimal.NewFromInt(p.price), ids[p.category], seedImageURL, p.stock); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.name, err)
			}
		}
	}

	return tx.Commit()
}
