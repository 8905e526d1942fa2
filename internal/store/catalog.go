package store

import (
	"context"
	"fmt"
	"strings"

	"simple-ecommerce/internal/models"
)

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id")
	return categories, err
}

// CreateCategory inserts a category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.db.GetContext(ctx, &category.ID,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", category.Name)
}

// UpdateCategory renames a category
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	return affected(s.db.ExecContext(ctx,
		"UPDATE categories SET name = $1 WHERE id = $2", category.Name, category.ID))
}

// DeleteCategory removes a category; products keep their category_id
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return affected(s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id))
}

// ListProducts retrieves products matching every set filter, ordered by id
func (s *Store) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategoryID != nil {
		conds = append(conds, "category_id = "+arg(*filter.CategoryID))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*filter.MaxPrice))
	}
	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf(`(name ILIKE %s ESCAPE '\' OR description ILIKE %s ESCAPE '\')`, p, p))
	}

	query := "SELECT * FROM products"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes a search term match literally inside a LIKE pattern
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		return nil, classify(err)
	}
	return &product, nil
}

// CreateProduct inserts a product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, category_id, image_url, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return classify(s.db.GetContext(ctx, product, query,
		product.Name, product.Description, product.Price, product.CategoryID, product.ImageURL, product.Stock))
}

// UpdateProduct overwrites every editable product column
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, category_id = $4, image_url = $5, stock = $6
		WHERE id = $7`,
		product.Name, product.Description, product.Price, product.CategoryID, product.ImageURL, product.Stock, product.ID))
}

// DeleteProduct removes a product; order items keep their product_id
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	return affected(s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id))
}
