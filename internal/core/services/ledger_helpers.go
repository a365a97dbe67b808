package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// seriesStart is the first number of a fresh series. Only sales honour the
// business start number.
func seriesStart(business domain.Business, kind domain.DocumentKind) int64 {
	if kind == domain.KindSale {
		return business.StartNumber()
	}
	return 1
}

// loadProducts resolves the live products among ids or fails on the first missing one.
func loadProducts(ctx context.Context, repo portsrepo.ProductReader, businessID string, ids []string) (map[string]domain.Product, error) {
	products, err := repo.FindProductsByIDs(ctx, businessID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("product %s not found", id))
		}
	}
	return products, nil
}

// loadParty finds the document's party and checks its type against the kind.
func loadParty(ctx context.Context, repo portsrepo.PartyReader, businessID, partyID string, kind domain.DocumentKind) (*domain.Party, error) {
	party, err := repo.FindPartyByID(ctx, businessID, partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("party not found")
		}
		return nil, err
	}
	if want := kind.PartyType(); want != "" && party.Type != want {
		return nil, apperrors.NewValidationError(fmt.Sprintf("a %s needs a %s party", kind, want))
	}
	return party, nil
}

func validateTaxRate(rate decimal.Decimal) error {
	if !domain.IsPercent(rate) {
		return apperrors.NewValidationError("tax rate must be between 0 and 100")
	}
	return nil
}

// duplicateNumber turns a unique violation on the document number into a readable Conflict.
func duplicateNumber(err error, kind domain.DocumentKind, no int64) error {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return apperrors.NewAppError(apperrors.KindConflict, fmt.Sprintf("%s number %d is already used", kind, no), err)
	}
	return err
}

func docRef(kind domain.DocumentKind, id string) domain.DocumentRef {
	return domain.DocumentRef{Kind: kind, ID: id}
}

// reapply swaps stored effects for new ones inside tx.
func reapply(ctx context.Context, tx portsrepo.LedgerTx, businessID string, ref domain.DocumentRef, old, updated domain.LedgerEffects, userID string, at time.Time) error {
	return tx.ReplaceEffects(ctx, businessID, ref, old, updated, userID, at)
}
