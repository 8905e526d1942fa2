package store

import (
	"context"

	"simple-ecommerce/internal/models"
)

// DashboardStats aggregates store-wide counters in a single round trip
func (s *Store) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM products) AS total_products,
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders) AS total_revenue,
			(SELECT COALESCE(SUM(discount), 0) FROM orders) AS total_discount,
			(SELECT COALESCE(SUM(final_total), 0) FROM orders) AS net_revenue`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
