package memory

import portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"

// NewRepositoryProvider wires every memory repository to one store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newUserRepository(store),
		BusinessRepo:     newBusinessRepository(store),
		PartyRepo:        newPartyRepository(store),
		CategoryRepo:     newCategoryRepository(store),
		ProductRepo:      newProductRepository(store),
		LedgerRepo:       newLedgerRepository(store),
		SubscriptionRepo: newSubscriptionRepository(store),
		AuditRepo:        newAuditLogRepository(store),
		ReportingRepo:    newReportingRepository(store),
	}
}
