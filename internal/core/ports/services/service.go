package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth         AuthSvcFacade
	GoogleOAuth  GoogleOAuthSvc
	User         UserSvcFacade
	Business     BusinessSvcFacade
	Party        PartySvcFacade
	Category     CategorySvcFacade
	Product      ProductSvcFacade
	Invoice      InvoiceSvcFacade
	Return       ReturnSvcFacade
	Cashbook     CashbookSvcFacade
	Subscription SubscriptionSvcFacade
	Audit        AuditSvcFacade
	Reporting    ReportingSvcFacade
	Print        PrintSvcFacade
}
