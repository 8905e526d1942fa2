package service

import (
	"context"
	"strconv"
	"strings"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService handles categories and products
type CatalogService struct {
	repo   CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo, logger: util.GetLogger()}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching categories", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Category name required")
	}
	category := &models.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, apperr.Internal("Error creating category", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("Category name required")
	}
	return translate(s.repo.UpdateCategory(ctx, &models.Category{ID: id, Name: name}),
		"Category not found", "Error updating category")
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return translate(s.repo.DeleteCategory(ctx, id), "Category not found", "Error deleting category")
}

// ProductQuery carries the raw listing filters from the query string
type ProductQuery struct {
	Category string `form:"category"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Search   string `form:"search"`
}

// ListProducts returns products matching every supplied filter, by id
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	filter := models.ProductFilter{Search: strings.TrimSpace(q.Search)}

	if q.Category != "" {
		id, err := strconv.ParseInt(q.Category, 10, 64)
		if err != nil {
			return nil, apperr.Validation("Invalid category filter")
		}
		filter.CategoryID = &id
	}
	if q.MinPrice != "" {
		lo, err := decimal.NewFromString(q.MinPrice)
		if err != nil {
			return nil, apperr.Validation("Invalid minPrice filter")
		}
		filter.MinPrice = &lo
	}
	if q.MaxPrice != "" {
		hi, err := decimal.NewFromString(q.MaxPrice)
		if err != nil {
			return nil, apperr.Validation("Invalid maxPrice filter")
		}
		filter.MaxPrice = &hi
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Error fetching products", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Product not found", "Error fetching product")
	}
	return product, nil
}

// ProductRequest represents an admin product submission. A zero
// category_id means no category.
type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int64           `json:"category_id"`
	ImageURL    string           `json:"image_url"`
	Stock       int              `json:"stock"`
}

func (r *ProductRequest) toProduct() (*models.Product, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" || r.Price == nil {
		return nil, apperr.Validation("Name and price required")
	}
	if r.Price.IsNegative() {
		return nil, apperr.Validation("Price must not be negative")
	}
	if r.Stock < 0 {
		return nil, apperr.Validation("Stock must not be negative")
	}

	categoryID := r.CategoryID
	if categoryID != nil && *categoryID == 0 {
		categoryID = nil
	}

	return &models.Product{
		Name:        name,
		Description: r.Description,
		Price:       r.Price.Round(2),
		CategoryID:  categoryID,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
	}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	product, err := req.toProduct()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, apperr.Internal("Error creating product", err)
	}
	s.logger.Info("Product created", zap.Int64("product_id", product.ID))
	return product, nil
}

// UpdateProduct overwrites every editable field of an existing product
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) error {
	product, err := req.toProduct()
	if err != nil {
		return err
	}
	product.ID = id
	return translate(s.repo.UpdateProduct(ctx, product), "Product not found", "Error updating product")
}

// DeleteProduct removes a product. Historical order items keep pointing at it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return translate(err, "Product not found", "Error deleting product")
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}
