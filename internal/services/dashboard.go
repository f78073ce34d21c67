package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/stockroom/internal/database"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
)

type DashboardService struct {
	db *database.DB
}

func NewDashboardService(db *database.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Summary(ctx context.Context, orgID uuid.UUID) (*models.DashboardSummary, error) {
	var sum models.DashboardSummary
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM items WHERE organization_id = $1),
			(SELECT COUNT(*) FROM items WHERE organization_id = $1 AND quantity <= min_quantity),
			(SELECT COUNT(*) FROM locations WHERE organization_id = $1),
			(SELECT COUNT(*) FROM item_requests WHERE organization_id = $1 AND status = 'pending')
	`, orgID).Scan(&sum.Items, &sum.LowStockItems, &sum.Locations, &sum.PendingRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &sum, nil
}
