package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	BusinessRepo     BusinessRepositoryFacade
	PartyRepo        PartyRepositoryFacade
	CategoryRepo     CategoryRepositoryFacade
	ProductRepo      ProductRepositoryFacade
	LedgerRepo       LedgerRepositoryWithTx
	SubscriptionRepo SubscriptionRepositoryWithTx
	AuditRepo        AuditLogRepositoryFacade
	ReportingRepo    ReportingRepository
}
