package repositories

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// ReportingRepository defines operations for retrieving report data
type ReportingRepository interface {
	// BusinessOverview aggregates document totals inside the range and current balances.
	BusinessOverview(ctx context.Context, businessID string, dateRange domain.DateRange) (*domain.BusinessOverview, error)
}
