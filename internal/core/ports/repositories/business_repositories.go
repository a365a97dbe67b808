package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// BusinessReader defines read operations for businesses.
type BusinessReader interface {
	FindBusinessByID(ctx context.Context, businessID string) (*domain.Business, error)
	FindBusinessByOwnerID(ctx context.Context, ownerID string) (*domain.Business, error)
	ListBusinesses(ctx context.Context, limit int, offset int) ([]domain.Business, error)
}

// BusinessWriter defines write operations for businesses.
type BusinessWriter interface {
	// CreateBusinessWithOwner persists the owner, the business and its trial
	// subscription atomically.
	CreateBusinessWithOwner(ctx context.Context, owner domain.User, business domain.Business, trial domain.Subscription) error

	// UpdateBusiness updates profile fields. Subscription fields are left alone.
	UpdateBusiness(ctx context.Context, business domain.Business) error

	MarkBusinessDeleted(ctx context.Context, businessID string, deletedAt time.Time, deletedBy string) error
}

// BusinessRepositoryFacade combines all business-related repository interfaces
type BusinessRepositoryFacade interface {
	BusinessReader
	BusinessWriter
}
