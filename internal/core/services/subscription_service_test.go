package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateSubscription(ctx context.Context, business domain.Business, plan domain.SubscriptionPlan) (string, error) {
	args := m.Called(ctx, business, plan)
	return args.String(0), args.Error(1)
}

type SubscriptionServiceTestSuite struct {
	suite.Suite
	f       *fixture
	gateway *MockPaymentGateway
	monthly domain.SubscriptionPlan
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.gateway = new(MockPaymentGateway)
	suite.f = newFixture(suite.T(), services.WithPaymentGateway(suite.gateway))

	suite.monthly = domain.SubscriptionPlan{PlanID: "plan-monthly", Name: "Monthly", Price: dec("299"), DurationInDays: 30, IsActive: true}
	retired := domain.SubscriptionPlan{PlanID: "plan-legacy", Name: "Legacy", Price: dec("99"), DurationInDays: 7, IsActive: false}
	suite.Require().NoError(suite.f.repos.SubscriptionRepo.UpsertPlan(suite.f.ctx, suite.monthly))
	suite.Require().NoError(suite.f.repos.SubscriptionRepo.UpsertPlan(suite.f.ctx, retired))

	// Later than the trial so the checkout is the latest subscription.
	suite.f.now = suite.f.now.Add(time.Hour)
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func (suite *SubscriptionServiceTestSuite) checkout(gatewayID string) *dto.CheckoutResponse {
	suite.gateway.On("CreateSubscription", mock.Anything, mock.AnythingOfType("domain.Business"), mock.MatchedBy(func(p domain.SubscriptionPlan) bool {
		return p.PlanID == suite.monthly.PlanID
	})).Return(gatewayID, nil).Once()
	resp, err := suite.f.svc.Subscription.Checkout(suite.f.ctx, suite.f.owner, dto.CheckoutRequest{PlanID: suite.monthly.PlanID})
	suite.Require().NoError(err)
	return resp
}

func (suite *SubscriptionServiceTestSuite) verify(resp *dto.CheckoutResponse, paymentID string) (*domain.Subscription, error) {
	signature := utils.SignHMAC(suite.f.cfg.PaymentKeySecret, []byte(paymentID+"|"+resp.GatewaySubscriptionID))
	return suite.f.svc.Subscription.VerifyPayment(suite.f.ctx, suite.f.owner, dto.VerifyPaymentRequest{
		SubscriptionID:        resp.SubscriptionID,
		GatewayPaymentID:      paymentID,
		GatewaySubscriptionID: resp.GatewaySubscriptionID,
		Signature:             signature,
	})
}

func (suite *SubscriptionServiceTestSuite) webhook(event, gatewayID, paymentID string) ([]byte, string) {
	payload := map[string]any{
		"event": event,
		"payload": map[string]any{
			"subscription": map[string]any{"entity": map[string]any{"id": gatewayID}},
			"payment":      map[string]any{"entity": map[string]any{"id": paymentID}},
		},
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)
	return body, utils.SignHMAC(suite.f.cfg.PaymentWebhookSecret, body)
}

func (suite *SubscriptionServiceTestSuite) current() *domain.Subscription {
	sub, err := suite.f.svc.Subscription.GetCurrentSubscription(suite.f.ctx, suite.f.owner)
	suite.Require().NoError(err)
	return sub
}

// --- Plans and checkout ---

func (suite *SubscriptionServiceTestSuite) TestListPlansActiveOnly() {
	plans, err := suite.f.svc.Subscription.ListPlans(suite.f.ctx)

	suite.Require().NoError(err)
	suite.Require().Len(plans, 1)
	suite.Equal("Monthly", plans[0].Name)
}

func (suite *SubscriptionServiceTestSuite) TestTrialAfterSignup() {
	business, err := suite.f.svc.Business.GetBusiness(suite.f.ctx, suite.f.owner)
	suite.Require().NoError(err)
	suite.Require().NotNil(business.SubscriptionExpiry)
	suite.True(business.HasActiveSubscription(suite.f.now))
	suite.Equal(domain.StatusTrial, suite.current().Status)
}

func (suite *SubscriptionServiceTestSuite) TestCheckoutCreatesPending() {
	resp := suite.checkout("sub_gw_1")

	suite.Equal("sub_gw_1", resp.GatewaySubscriptionID)
	sub := suite.current()
	suite.Equal(resp.SubscriptionID, sub.SubscriptionID)
	suite.Equal(domain.StatusPending, sub.Status)
	suite.gateway.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestCheckoutRejections() {
	_, err := suite.f.svc.Subscription.Checkout(suite.f.ctx, suite.f.owner, dto.CheckoutRequest{PlanID: "plan-legacy"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.svc.Subscription.Checkout(suite.f.ctx, suite.f.owner, dto.CheckoutRequest{PlanID: "nope"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.svc.Subscription.Checkout(suite.f.ctx, suite.f.staff, dto.CheckoutRequest{PlanID: suite.monthly.PlanID})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.gateway.AssertNotCalled(suite.T(), "CreateSubscription", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCheckoutGatewayFailure() {
	suite.gateway.On("CreateSubscription", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError).Once()

	_, err := suite.f.svc.Subscription.Checkout(suite.f.ctx, suite.f.owner, dto.CheckoutRequest{PlanID: suite.monthly.PlanID})

	suite.ErrorIs(err, apperrors.ErrBadGateway)
	suite.Equal(domain.StatusTrial, suite.current().Status)
}

// --- Verify payment ---

func (suite *SubscriptionServiceTestSuite) TestVerifyPaymentActivates() {
	resp := suite.checkout("sub_gw_1")

	sub, err := suite.verify(resp, "pay_1")
	suite.Require().NoError(err)

	suite.Equal(domain.StatusActive, sub.Status)
	suite.True(sub.EndDate.Equal(suite.f.now.Add(30 * 24 * time.Hour)))
	suite.Require().NotNil(sub.GatewayPaymentID)
	suite.Equal("pay_1", *sub.GatewayPaymentID)

	business, err := suite.f.svc.Business.GetBusiness(suite.f.ctx, suite.f.owner)
	suite.Require().NoError(err)
	suite.Require().NotNil(business.SubscriptionPlanID)
	suite.Equal(suite.monthly.PlanID, *business.SubscriptionPlanID)
	suite.True(business.SubscriptionExpiry.Equal(sub.EndDate))

	_, err = suite.verify(resp, "pay_1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SubscriptionServiceTestSuite) TestVerifyPaymentBadSignature() {
	resp := suite.checkout("sub_gw_1")

	_, err := suite.f.svc.Subscription.VerifyPayment(suite.f.ctx, suite.f.owner, dto.VerifyPaymentRequest{
		SubscriptionID:        resp.SubscriptionID,
		GatewayPaymentID:      "pay_1",
		GatewaySubscriptionID: resp.GatewaySubscriptionID,
		Signature:             utils.SignHMAC("wrong-secret", []byte("pay_1|"+resp.GatewaySubscriptionID)),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(domain.StatusPending, suite.current().Status)
}

func (suite *SubscriptionServiceTestSuite) TestVerifyPaymentOtherBusiness() {
	resp := suite.checkout("sub_gw_1")
	stranger, _ := suite.f.signup("other@shop.test", "Other Stores")

	signature := utils.SignHMAC(suite.f.cfg.PaymentKeySecret, []byte("pay_1|"+resp.GatewaySubscriptionID))
	_, err := suite.f.svc.Subscription.VerifyPayment(suite.f.ctx, stranger, dto.VerifyPaymentRequest{
		SubscriptionID:        resp.SubscriptionID,
		GatewayPaymentID:      "pay_1",
		GatewaySubscriptionID: resp.GatewaySubscriptionID,
		Signature:             signature,
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Webhooks ---

func (suite *SubscriptionServiceTestSuite) TestWebhookChargedRenewsOnce() {
	resp := suite.checkout("sub_gw_1")
	active, err := suite.verify(resp, "pay_1")
	suite.Require().NoError(err)

	body, signature := suite.webhook(services.EventSubscriptionCharged, "sub_gw_1", "pay_2")
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))

	renewed := suite.current()
	suite.Equal(domain.StatusActive, renewed.Status)
	suite.True(renewed.EndDate.Equal(active.EndDate.Add(30 * 24 * time.Hour)))

	// A redelivered event is acknowledged without extending again.
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))
	suite.True(suite.current().EndDate.Equal(renewed.EndDate))

	logs, err := suite.f.svc.Audit.ListAuditLogs(suite.f.ctx, suite.f.owner, dto.ListAuditLogsParams{Action: string(domain.ActionRenew), Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(logs.Logs, 1)
	suite.Equal("payment-gateway", logs.Logs[0].UserID)
}

func (suite *SubscriptionServiceTestSuite) TestWebhookChargedActivatesPending() {
	suite.checkout("sub_gw_1")

	body, signature := suite.webhook(services.EventSubscriptionCharged, "sub_gw_1", "pay_1")
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))

	sub := suite.current()
	suite.Equal(domain.StatusActive, sub.Status)
	suite.True(sub.EndDate.Equal(suite.f.now.Add(30 * 24 * time.Hour)))
}

func (suite *SubscriptionServiceTestSuite) TestWebhookCancelThenExpire() {
	resp := suite.checkout("sub_gw_1")
	_, err := suite.verify(resp, "pay_1")
	suite.Require().NoError(err)

	body, signature := suite.webhook(services.EventSubscriptionCancelled, "sub_gw_1", "")
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))
	suite.Equal(domain.StatusCancelled, suite.current().Status)

	// Cancelling twice does not apply and is acknowledged.
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))

	body, signature = suite.webhook(services.EventSubscriptionCompleted, "sub_gw_1", "")
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))
	sub := suite.current()
	suite.Equal(domain.StatusExpired, sub.Status)
	suite.True(sub.EndDate.Equal(suite.f.now))

	business, err := suite.f.svc.Business.GetBusiness(suite.f.ctx, suite.f.owner)
	suite.Require().NoError(err)
	suite.False(business.HasActiveSubscription(suite.f.now))
}

func (suite *SubscriptionServiceTestSuite) TestWebhookExpiringSupersededKeepsBusinessExpiry() {
	first := suite.checkout("sub_gw_1")
	_, err := suite.verify(first, "pay_1")
	suite.Require().NoError(err)

	suite.f.now = suite.f.now.Add(time.Hour)
	second := suite.checkout("sub_gw_2")
	renewed, err := suite.verify(second, "pay_2")
	suite.Require().NoError(err)

	// The first subscription was cancelled by the second; its gateway now ends it.
	suite.f.now = suite.f.now.Add(time.Hour)
	body, signature := suite.webhook(services.EventSubscriptionCompleted, "sub_gw_1", "")
	suite.Require().NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))

	business, err := suite.f.svc.Business.GetBusiness(suite.f.ctx, suite.f.owner)
	suite.Require().NoError(err)
	suite.Require().NotNil(business.SubscriptionExpiry)
	suite.True(business.SubscriptionExpiry.Equal(renewed.EndDate), "expiry %s, want %s", business.SubscriptionExpiry, renewed.EndDate)
	suite.Require().NotNil(business.SubscriptionPlanID)
	suite.Equal(*renewed.PlanID, *business.SubscriptionPlanID)
	suite.True(business.HasActiveSubscription(suite.f.now))

	current := suite.current()
	suite.Equal(second.SubscriptionID, current.SubscriptionID)
	suite.Equal(domain.StatusActive, current.Status)
}

func (suite *SubscriptionServiceTestSuite) TestWebhookAcknowledgesWhatCannotApply() {
	body, signature := suite.webhook(services.EventSubscriptionCharged, "sub_unknown", "pay_1")
	suite.NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))

	body, signature = suite.webhook("payment.authorized", "sub_unknown", "pay_1")
	suite.NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, signature))

	body = []byte(`{"event":"subscription.charged","payload":{}}`)
	suite.NoError(suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, utils.SignHMAC(suite.f.cfg.PaymentWebhookSecret, body)))
}

func (suite *SubscriptionServiceTestSuite) TestWebhookRejectsBadInput() {
	body, _ := suite.webhook(services.EventSubscriptionCharged, "sub_gw_1", "pay_1")
	err := suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, body, "deadbeef")
	suite.ErrorIs(err, apperrors.ErrValidation)

	garbage := []byte("not json")
	err = suite.f.svc.Subscription.HandleWebhook(suite.f.ctx, garbage, utils.SignHMAC(suite.f.cfg.PaymentWebhookSecret, garbage))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSeedDefaultPlansIsIdempotent(t *testing.T) {
	f := newFixture(t)

	n, err := services.SeedDefaultPlans(f.ctx, f.repos.SubscriptionRepo, "operator", f.now)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	first, err := f.svc.Subscription.ListPlans(f.ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 3)

	_, err = services.SeedDefaultPlans(f.ctx, f.repos.SubscriptionRepo, "operator", f.now.Add(time.Hour))
	assert.NoError(t, err)
	second, err := f.svc.Subscription.ListPlans(f.ctx)
	assert.NoError(t, err)
	assert.ElementsMatch(t, planIDs(first), planIDs(second))
}

func planIDs(plans []domain.SubscriptionPlan) []string {
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.PlanID)
	}
	return ids
}
