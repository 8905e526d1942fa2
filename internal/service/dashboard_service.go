package service

import (
	"context"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/models"
	"simple-ecommerce/internal/util"
)

type DashboardService struct {
	repo StatsRepository
}

func NewDashboardService(repo StatsRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats reports store-wide counts. total_revenue sums order subtotals;
// net_revenue sums what customers actually paid.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.Stats")
	defer span.End()

	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		return nil, apperr.Internal("Error loading stats", err)
	}
	return stats, nil
}
