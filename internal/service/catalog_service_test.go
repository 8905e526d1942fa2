package service

import (
	"context"
	"testing"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/service/servicetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v string) *decimal.Decimal {
	p := decimal.RequireFromString(v)
	return &p
}

func TestListProductsFilters(t *testing.T) {
	repo := servicetest.NewMemStore()
	svc := NewCatalogService(repo)
	ctx := context.Background()

	books, err := svc.CreateCategory(ctx, "Books")
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Novel", Price: decPtr("399"), CategoryID: &books.ID})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Smartphone", Description: "A phone", Price: decPtr("14999")})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Headphones", Description: "For your phone", Price: decPtr("2999")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query ProductQuery
		want  []string
	}{
		{"no filters", ProductQuery{}, []string{"Novel", "Smartphone", "Headphones"}},
		{"category", ProductQuery{Category: "1"}, []string{"Novel"}},
		{"price range", ProductQuery{MinPrice: "1000", MaxPrice: "3000"}, []string{"Headphones"}},
		{"search is case insensitive", ProductQuery{Search: "PHONE"}, []string{"Smartphone", "Headphones"}},
		{"combined", ProductQuery{Search: "phone", MaxPrice: "5000"}, []string{"Headphones"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := svc.ListProducts(ctx, tt.query)
			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, err = svc.ListProducts(ctx, ProductQuery{MinPrice: "cheap"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestProductValidation(t *testing.T) {
	svc := NewCatalogService(servicetest.NewMemStore())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &ProductRequest{Name: "No price"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Neg", Price: decPtr("-1")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	zero := int64(0)
	product, err := svc.CreateProduct(ctx, &ProductRequest{Name: "Pen", Price: decPtr("9.999"), CategoryID: &zero})
	require.NoError(t, err)
	assert.Nil(t, product.CategoryID)
	assert.Equal(t, "10", product.Price.String())
}

func TestProductUpdateAndDelete(t *testing.T) {
	svc := NewCatalogService(servicetest.NewMemStore())
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &ProductRequest{Name: "Pen", Price: decPtr("10")})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProduct(ctx, product.ID, &ProductRequest{Name: "Blue pen", Price: decPtr("12"), Stock: 3}))
	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue pen", got.Name)
	assert.Equal(t, 3, got.Stock)

	err = svc.UpdateProduct(ctx, 999, &ProductRequest{Name: "Ghost", Price: decPtr("1")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	_, err = svc.GetProduct(ctx, product.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCategoryCRUD(t *testing.T) {
	svc := NewCatalogService(servicetest.NewMemStore())
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "  ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	category, err := svc.CreateCategory(ctx, "Toys")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateCategory(ctx, category.ID, "Games"))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Games", categories[0].Name)

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	assert.True(t, apperr.Is(svc.DeleteCategory(ctx, category.ID), apperr.KindNotFound))
}
