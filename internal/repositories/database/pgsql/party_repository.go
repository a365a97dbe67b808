package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPartyRepository struct {
	db *pgxpool.Pool
}

func newPgxPartyRepository(db *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{db: db}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const partyColumns = `party_id, business_id, type, name, mobile, email, address, gstin, bank_details,
	opening_balance, balance, is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanParty(row pgx.Row) (domain.Party, error) {
	var p domain.Party
	err := row.Scan(
		&p.PartyID,
		&p.BusinessID,
		&p.Type,
		&p.Name,
		&p.Mobile,
		&p.Email,
		&p.Address,
		&p.GSTIN,
		&p.BankDetails,
		&p.OpeningBalance,
		&p.Balance,
		&p.IsDeleted,
		&p.DeletedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, businessID, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1 AND business_id = $2 AND NOT is_deleted;`
	p, err := scanParty(r.db.QueryRow(ctx, query, partyID, businessID))
	if err != nil {
		return nil, mapError(err, "party")
	}
	return &p, nil
}

func (r *PgxPartyRepository) ListParties(ctx context.Context, businessID string, filter portsrepo.PartyFilter, limit int, offset int) ([]domain.Party, error) {
	w := newWhere("business_id = ?", businessID).and("NOT is_deleted")
	if filter.Type != "" {
		w.and("type = ?", filter.Type)
	}
	if filter.Search != "" {
		w.and("(name ILIKE '%' || ? || '%' OR mobile LIKE '%' || ? || '%')", filter.Search, filter.Search)
	}
	query := `SELECT ` + partyColumns + ` FROM parties ` + w.String() +
		` ORDER BY lower(name) LIMIT ` + w.next(clampLimit(limit)) + ` OFFSET ` + w.next(offset) + `;`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "parties")
	}
	parties, err := collect(rows, scanParty)
	return parties, mapError(err, "parties")
}

func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db.Exec(ctx, query,
		party.PartyID,
		party.BusinessID,
		party.Type,
		party.Name,
		party.Mobile,
		party.Email,
		party.Address,
		party.GSTIN,
		party.BankDetails,
		party.OpeningBalance,
		party.Balance,
		party.IsDeleted,
		party.DeletedAt,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	return mapError(err, "party with this mobile")
}

// UpdateParty never writes type or balances.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	query := `
		UPDATE parties
		SET name = $3, mobile = $4, email = $5, address = $6, gstin = $7, bank_details = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE party_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := r.db.Exec(ctx, query,
		party.PartyID,
		party.BusinessID,
		party.Name,
		party.Mobile,
		party.Email,
		party.Address,
		party.GSTIN,
		party.BankDetails,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "party with this mobile")
	}
	return requireRow(tag, "party")
}

func (r *PgxPartyRepository) MarkPartyDeleted(ctx context.Context, businessID, partyID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE parties
		SET is_deleted = TRUE, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE party_id = $1 AND business_id = $2 AND NOT is_deleted;
	`
	tag, err := r.db.Exec(ctx, query, partyID, businessID, deletedAt, deletedBy)
	if err != nil {
		return mapError(err, "party")
	}
	return requireRow(tag, "party")
}
