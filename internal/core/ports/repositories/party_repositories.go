package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// PartyFilter narrows a party listing. Empty fields do not filter.
type PartyFilter struct {
	Type   domain.PartyType
	Search string // matches name or mobile
}

// PartyReader defines read operations for parties. Deleted parties are not found.
type PartyReader interface {
	FindPartyByID(ctx context.Context, businessID, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, businessID string, filter PartyFilter, limit int, offset int) ([]domain.Party, error)
}

// PartyWriter defines write operations for parties. None of them change the balance
// after creation.
type PartyWriter interface {
	// SaveParty persists a new party. A mobile taken within business+type returns apperrors.ErrDuplicate.
	SaveParty(ctx context.Context, party domain.Party) error
	UpdateParty(ctx context.Context, party domain.Party) error
	MarkPartyDeleted(ctx context.Context, businessID, partyID string, deletedAt time.Time, deletedBy string) error
}

// PartyRepositoryFacade combines all party-related repository interfaces
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
