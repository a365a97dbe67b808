package services

import (
	"time"

	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/platform/config"
)

// containerDeps are the collaborators the container builds unless overridden.
type containerDeps struct {
	gateway     portssvc.PaymentGateway
	googleOAuth portssvc.GoogleOAuthSvc
	clock       func() time.Time
}

// ContainerOption overrides a collaborator of the service container.
type ContainerOption func(*containerDeps)

// WithPaymentGateway replaces the local payment gateway.
func WithPaymentGateway(gateway portssvc.PaymentGateway) ContainerOption {
	return func(d *containerDeps) { d.gateway = gateway }
}

// WithGoogleOAuth replaces the Google sign-in client.
func WithGoogleOAuth(svc portssvc.GoogleOAuthSvc) ContainerOption {
	return func(d *containerDeps) { d.googleOAuth = svc }
}

// WithContainerClock sets the time source of every service.
func WithContainerClock(clock func() time.Time) ContainerOption {
	return func(d *containerDeps) { d.clock = clock }
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, printTokens portssvc.PrintTokenStore, opts ...ContainerOption) *portssvc.ServiceContainer {
	deps := containerDeps{gateway: NewLocalPaymentGateway()}
	for _, opt := range opts {
		opt(&deps)
	}
	if deps.googleOAuth == nil {
		deps.googleOAuth = NewGoogleOAuthService(cfg)
	}

	var base []ServiceOption
	if deps.clock != nil {
		base = append(base, WithClock(deps.clock))
	}

	// The audit service is built first since every mutating service records through it
	audit := NewAuditService(repos.AuditRepo, base...)
	withAudit := append(append([]ServiceOption{}, base...), WithAuditRecorder(audit))

	return &portssvc.ServiceContainer{
		Auth:         NewAuthService(cfg, repos.UserRepo, repos.BusinessRepo, deps.googleOAuth, withAudit...),
		GoogleOAuth:  deps.googleOAuth,
		User:         NewUserService(repos.UserRepo, withAudit...),
		Business:     NewBusinessService(repos.BusinessRepo, withAudit...),
		Party:        NewPartyService(repos.PartyRepo, withAudit...),
		Category:     NewCategoryService(repos.CategoryRepo, withAudit...),
		Product:      NewProductService(repos.ProductRepo, repos.CategoryRepo, withAudit...),
		Invoice:      NewInvoiceService(repos.LedgerRepo, repos.PartyRepo, repos.ProductRepo, repos.BusinessRepo, withAudit...),
		Return:       NewReturnService(repos.LedgerRepo, repos.BusinessRepo, withAudit...),
		Cashbook:     NewCashbookService(repos.LedgerRepo, repos.PartyRepo, withAudit...),
		Subscription: NewSubscriptionService(cfg, repos.SubscriptionRepo, repos.BusinessRepo, deps.gateway, withAudit...),
		Audit:        audit,
		Reporting:    NewReportingService(repos.ReportingRepo, base...),
		Print:        NewPrintService(repos.LedgerRepo, repos.BusinessRepo, printTokens, base...),
	}
}
