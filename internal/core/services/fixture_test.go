package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/platform/cache"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/SscSPs/billistry/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a signed-up business on the in-memory store with every service wired.
type fixture struct {
	t        *testing.T
	ctx      context.Context
	cfg      *config.Config
	repos    portsrepo.RepositoryProvider
	svc      *portssvc.ServiceContainer
	now      time.Time
	owner    domain.Actor
	staff    domain.Actor
	business *domain.Business
}

func testConfig() *config.Config {
	return &config.Config{
		TrialDays:            14,
		JWTSecret:            "test-secret",
		JWTIssuer:            "billistry-test",
		JWTExpiryDuration:    time.Hour,
		PaymentKeySecret:     "key-secret",
		PaymentWebhookSecret: "webhook-secret",
		PrintTokenTTL:        time.Minute,
		PrintCacheSize:       16,
	}
}

func newFixture(t *testing.T, opts ...services.ContainerOption) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		cfg:   testConfig(),
		repos: memory.NewRepositoryProvider(memory.NewStore()),
		now:   time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC),
	}
	opts = append([]services.ContainerOption{services.WithContainerClock(func() time.Time { return f.now })}, opts...)
	f.svc = services.NewServiceContainer(f.cfg, f.repos, cache.NewPrintTokens(f.cfg.PrintCacheSize, f.cfg.PrintTokenTTL), opts...)

	f.owner, f.business = f.signup("asha@shop.test", "Asha Stores")
	staff, err := f.svc.User.CreateStaff(f.ctx, f.owner, dto.CreateStaffRequest{Name: "Ravi", Email: "ravi@shop.test", Password: "password123"})
	require.NoError(t, err)
	f.staff = staff.Actor()
	return f
}

func (f *fixture) signup(email, businessName string) (domain.Actor, *domain.Business) {
	f.t.Helper()
	user, business, err := f.svc.Auth.Signup(f.ctx, dto.SignupRequest{
		Name:         "Owner",
		Email:        email,
		Password:     "password123",
		BusinessName: businessName,
	})
	require.NoError(f.t, err)
	return user.Actor(), business
}

func (f *fixture) party(kind domain.PartyType, name, mobile string) *domain.Party {
	f.t.Helper()
	party, err := f.svc.Party.CreateParty(f.ctx, f.owner, dto.CreatePartyRequest{Type: kind, Name: name, Mobile: mobile})
	require.NoError(f.t, err)
	return party
}

func (f *fixture) product(name, openingStock, sellingPrice string) *domain.Product {
	f.t.Helper()
	product, err := f.svc.Product.CreateProduct(f.ctx, f.owner, dto.CreateProductRequest{
		Name:         name,
		SellingPrice: dec(sellingPrice),
		OpeningStock: dec(openingStock),
	})
	require.NoError(f.t, err)
	return product
}

// stock is the current stock of a live product.
func (f *fixture) stock(productID string) decimal.Decimal {
	f.t.Helper()
	p, err := f.svc.Product.GetProduct(f.ctx, f.owner, productID)
	require.NoError(f.t, err)
	return p.CurrentStock
}

func (f *fixture) balance(partyID string) decimal.Decimal {
	f.t.Helper()
	p, err := f.svc.Party.GetParty(f.ctx, f.owner, partyID)
	require.NoError(f.t, err)
	return p.Balance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, want string, got decimal.Decimal) bool {
	t.Helper()
	return assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func saleRequest(partyID string, items ...dto.LineItemRequest) dto.InvoiceRequest {
	return dto.InvoiceRequest{PartyID: partyID, Items: items, TaxRate: dec("18")}
}

func line(productID, qty, rate string) dto.LineItemRequest {
	return dto.LineItemRequest{ProductID: productID, Quantity: dec(qty), Rate: dec(rate)}
}
