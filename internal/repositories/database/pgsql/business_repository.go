package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBusinessRepository struct {
	BaseRepository
}

func newPgxBusinessRepository(pool *pgxpool.Pool) portsrepo.BusinessRepositoryFacade {
	return &PgxBusinessRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BusinessRepositoryFacade = (*PgxBusinessRepository)(nil)

const businessColumns = `business_id, name, owner_id, phone, email, address, gstin, currency, timezone,
	invoice_prefix, invoice_start_number, subscription_plan_id, subscription_expiry, is_active,
	is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanBusiness(row pgx.Row) (domain.Business, error) {
	var b domain.Business
	err := row.Scan(
		&b.BusinessID,
		&b.Name,
		&b.OwnerID,
		&b.Phone,
		&b.Email,
		&b.Address,
		&b.GSTIN,
		&b.Currency,
		&b.Timezone,
		&b.InvoicePrefix,
		&b.InvoiceStartNumber,
		&b.SubscriptionPlanID,
		&b.SubscriptionExpiry,
		&b.IsActive,
		&b.IsDeleted,
		&b.DeletedAt,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	return b, err
}

func (r *PgxBusinessRepository) FindBusinessByID(ctx context.Context, businessID string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE business_id = $1 AND NOT is_deleted;`
	b, err := scanBusiness(r.Pool.QueryRow(ctx, query, businessID))
	if err != nil {
		return nil, mapError(err, "business")
	}
	return &b, nil
}

func (r *PgxBusinessRepository) FindBusinessByOwnerID(ctx context.Context, ownerID string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE owner_id = $1 AND NOT is_deleted;`
	b, err := scanBusiness(r.Pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, mapError(err, "business")
	}
	return &b, nil
}

func (r *PgxBusinessRepository) ListBusinesses(ctx context.Context, limit int, offset int) ([]domain.Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE NOT is_deleted
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, mapError(err, "businesses")
	}
	businesses, err := collect(rows, scanBusiness)
	return businesses, mapError(err, "businesses")
}

// CreateBusinessWithOwner writes the owner, the business and the trial in one
// transaction. users.business_id is checked at commit, so the owner can go first.
func (r *PgxBusinessRepository) CreateBusinessWithOwner(ctx context.Context, owner domain.User, business domain.Business, trial domain.Subscription) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, owner); err != nil {
			return err
		}
		query := `
			INSERT INTO businesses (` + businessColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
		`
		_, err := tx.Exec(ctx, query,
			business.BusinessID,
			business.Name,
			business.OwnerID,
			business.Phone,
			business.Email,
			business.Address,
			business.GSTIN,
			business.Currency,
			business.Timezone,
			business.InvoicePrefix,
			business.InvoiceStartNumber,
			business.SubscriptionPlanID,
			business.SubscriptionExpiry,
			business.IsActive,
			business.IsDeleted,
			business.DeletedAt,
			business.CreatedAt,
			business.CreatedBy,
			business.LastUpdatedAt,
			business.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "business for this owner")
		}
		return insertSubscription(ctx, tx, trial)
	})
}

// UpdateBusiness leaves owner and the subscription mirror untouched.
func (r *PgxBusinessRepository) UpdateBusiness(ctx context.Context, business domain.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, phone = $3, email = $4, address = $5, gstin = $6, currency = $7, timezone = $8,
		    invoice_prefix = $9, invoice_start_number = $10, is_active = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE business_id = $1 AND NOT is_deleted;
	`
	tag, err := r.Pool.Exec(ctx, query,
		business.BusinessID,
		business.Name,
		business.Phone,
		business.Email,
		business.Address,
		business.GSTIN,
		business.Currency,
		business.Timezone,
		business.InvoicePrefix,
		business.InvoiceStartNumber,
		business.IsActive,
		business.LastUpdatedAt,
		business.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "business")
	}
	return requireRow(tag, "business")
}

func (r *PgxBusinessRepository) MarkBusinessDeleted(ctx context.Context, businessID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE businesses
		SET is_deleted = TRUE, deleted_at = $2, is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE business_id = $1 AND NOT is_deleted;
	`
	tag, err := r.Pool.Exec(ctx, query, businessID, deletedAt, deletedBy)
	if err != nil {
		return mapError(err, "business")
	}
	return requireRow(tag, "business")
}
