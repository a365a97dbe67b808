package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/SscSPs/billistry/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bizID = "biz-1"

func seed(t *testing.T) (context.Context, portsrepo.RepositoryProvider) {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	businessID := bizID
	owner := domain.User{UserID: "owner-1", Email: "owner@shop.test", Role: domain.RoleShopkeeper, BusinessID: &businessID, IsActive: true}
	business := domain.Business{BusinessID: bizID, Name: "Shop", OwnerID: owner.UserID, IsActive: true}
	trial := domain.Subscription{SubscriptionID: "trial-1", BusinessID: bizID, Status: domain.StatusTrial, StartDate: now, EndDate: now.Add(24 * time.Hour)}
	require.NoError(t, repos.BusinessRepo.CreateBusinessWithOwner(ctx, owner, business, trial))

	require.NoError(t, repos.PartyRepo.SaveParty(ctx, domain.Party{PartyID: "cust-1", BusinessID: bizID, Type: domain.PartyCustomer, Name: "Meena", Mobile: "9876543210"}))
	require.NoError(t, repos.ProductRepo.SaveProduct(ctx, domain.Product{ProductID: "prod-1", BusinessID: bizID, Name: "Rice", CurrentStock: decimal.NewFromInt(10)}))
	return ctx, repos
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx, repos := seed(t)
	effects := domain.LedgerEffects{
		Stock:   []domain.StockDelta{{ProductID: "prod-1", Quantity: decimal.NewFromInt(-4)}},
		Balance: &domain.BalanceDelta{PartyID: "cust-1", Amount: decimal.NewFromInt(400)},
	}

	err := repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.ClaimDocumentNumber(ctx, bizID, domain.KindSale, 1); err != nil {
			return err
		}
		if err := tx.ApplyEffects(ctx, bizID, domain.DocumentRef{Kind: domain.KindSale, ID: "inv-1"}, effects, "owner-1", time.Now()); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	product, err := repos.ProductRepo.FindProductByID(ctx, bizID, "prod-1")
	require.NoError(t, err)
	assert.True(t, product.CurrentStock.Equal(decimal.NewFromInt(10)))
	party, err := repos.PartyRepo.FindPartyByID(ctx, bizID, "cust-1")
	require.NoError(t, err)
	assert.True(t, party.Balance.IsZero())

	next, err := repos.LedgerRepo.PeekDocumentNumber(ctx, bizID, domain.KindSale, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestApplyEffectsUnknownRowsFail(t *testing.T) {
	ctx, repos := seed(t)

	err := repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.ApplyEffects(ctx, "biz-2", domain.DocumentRef{Kind: domain.KindSale, ID: "inv-1"},
			domain.LedgerEffects{Stock: []domain.StockDelta{{ProductID: "prod-1", Quantity: decimal.NewFromInt(-1)}}}, "owner-1", time.Now())
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSequenceHonoursStartAndReservations(t *testing.T) {
	ctx, repos := seed(t)
	claim := func(start int64) int64 {
		var no int64
		require.NoError(t, repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			var err error
			no, err = tx.ClaimDocumentNumber(ctx, bizID, domain.KindSale, start)
			return err
		}))
		return no
	}

	assert.Equal(t, int64(100), claim(100))
	assert.Equal(t, int64(101), claim(100))
	// Raising the start later jumps the series forward.
	assert.Equal(t, int64(500), claim(500))

	require.NoError(t, repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.ReserveDocumentNumber(ctx, bizID, domain.KindSale, 900); err != nil {
			return err
		}
		// A lower manual number leaves the series alone.
		return tx.ReserveDocumentNumber(ctx, bizID, domain.KindSale, 7)
	}))
	peek, err := repos.LedgerRepo.PeekDocumentNumber(ctx, bizID, domain.KindSale, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(901), peek)
	assert.Equal(t, int64(901), claim(1))

	other, err := repos.LedgerRepo.PeekDocumentNumber(ctx, bizID, domain.KindPurchase, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestInvoiceCursorPagination(t *testing.T) {
	ctx, repos := seed(t)
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for i := 1; i <= 5; i++ {
			inv := domain.Invoice{
				InvoiceID:   fmt.Sprintf("inv-%d", i),
				BusinessID:  bizID,
				Kind:        domain.KindSale,
				InvoiceNo:   int64(i),
				PartyID:     "cust-1",
				InvoiceDate: day.AddDate(0, 0, i%3),
				AuditFields: domain.NewAuditFields("owner-1", day.Add(time.Duration(i)*time.Minute)),
			}
			if err := tx.InsertInvoice(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	}))

	var (
		seen  []string
		token *string
	)
	for pages := 0; pages < 5; pages++ {
		page, next, err := repos.LedgerRepo.ListInvoices(ctx, bizID, domain.KindSale, portsrepo.InvoiceFilter{}, 2, token)
		require.NoError(t, err)
		for _, inv := range page {
			seen = append(seen, inv.InvoiceID)
		}
		if next == nil {
			break
		}
		token = next
	}

	// Newest invoice date first, then newest creation.
	assert.Equal(t, []string{"inv-5", "inv-2", "inv-4", "inv-1", "inv-3"}, seen)

	bad := "###"
	_, _, err := repos.LedgerRepo.ListInvoices(ctx, bizID, domain.KindSale, portsrepo.InvoiceFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestInvoiceNumberUniqueIncludingDeleted(t *testing.T) {
	ctx, repos := seed(t)
	inv := domain.Invoice{InvoiceID: "inv-1", BusinessID: bizID, Kind: domain.KindSale, InvoiceNo: 1, PartyID: "cust-1"}

	require.NoError(t, repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}
		return tx.MarkInvoiceDeleted(ctx, bizID, inv.InvoiceID, time.Now(), "owner-1")
	}))

	err := repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		again := inv
		again.InvoiceID = "inv-2"
		return tx.InsertInvoice(ctx, again)
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// The purchase series is separate.
	err = repos.LedgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		purchase := inv
		purchase.InvoiceID = "pur-1"
		purchase.Kind = domain.KindPurchase
		return tx.InsertInvoice(ctx, purchase)
	})
	assert.NoError(t, err)
}

func TestCreateBusinessWithOwnerIsAtomic(t *testing.T) {
	ctx, repos := seed(t)
	businessID := "biz-2"
	dup := domain.User{UserID: "owner-2", Email: "OWNER@shop.test", Role: domain.RoleShopkeeper, BusinessID: &businessID, IsActive: true}

	err := repos.BusinessRepo.CreateBusinessWithOwner(ctx, dup,
		domain.Business{BusinessID: businessID, OwnerID: dup.UserID},
		domain.Subscription{SubscriptionID: "trial-2", BusinessID: businessID, Status: domain.StatusTrial})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = repos.BusinessRepo.FindBusinessByID(ctx, businessID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repos.SubscriptionRepo.FindLatestSubscription(ctx, businessID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
