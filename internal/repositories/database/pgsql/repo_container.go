package pgsql

import (
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		BusinessRepo:     newPgxBusinessRepository(dbPool),
		PartyRepo:        newPgxPartyRepository(dbPool),
		CategoryRepo:     newPgxCategoryRepository(dbPool),
		ProductRepo:      newPgxProductRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		SubscriptionRepo: newPgxSubscriptionRepository(dbPool),
		AuditRepo:        newPgxAuditLogRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
	}
}
