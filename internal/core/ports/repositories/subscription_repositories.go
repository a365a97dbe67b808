package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
)

// PlanReader defines read operations for subscription plans.
type PlanReader interface {
	FindPlanByID(ctx context.Context, planID string) (*domain.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]domain.SubscriptionPlan, error)
}

// PlanWriter defines write operations for subscription plans.
type PlanWriter interface {
	// UpsertPlan inserts the plan or replaces the plan with the same name.
	UpsertPlan(ctx context.Context, plan domain.SubscriptionPlan) error
}

// SubscriptionReader defines read operations for subscriptions.
type SubscriptionReader interface {
	// FindLatestSubscription returns the most recently created subscription of a business.
	FindLatestSubscription(ctx context.Context, businessID string) (*domain.Subscription, error)
	ListSubscriptionsByBusiness(ctx context.Context, businessID string) ([]domain.Subscription, error)
}

// SubscriptionWriter defines write operations for subscriptions.
type SubscriptionWriter interface {
	SaveSubscription(ctx context.Context, subscription domain.Subscription) error
}

// SubscriptionTx holds the reads and writes of one subscription state change.
type SubscriptionTx interface {
	LockSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	LockSubscriptionByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*domain.Subscription, error)
	FindPlanByID(ctx context.Context, planID string) (*domain.SubscriptionPlan, error)
	UpdateSubscription(ctx context.Context, subscription domain.Subscription) error

	// LockActiveSubscription returns the active subscription of the business
	// other than exceptID, or apperrors.ErrNotFound.
	LockActiveSubscription(ctx context.Context, businessID, exceptID string) (*domain.Subscription, error)

	// CancelOtherActiveSubscriptions cancels every active subscription of the
	// business except keepID.
	CancelOtherActiveSubscriptions(ctx context.Context, businessID, keepID string, at time.Time, by string) error

	// SetBusinessSubscription mirrors plan and expiry onto the business.
	SetBusinessSubscription(ctx context.Context, businessID string, planID *string, expiry *time.Time, at time.Time, by string) error
}

// SubscriptionRepositoryFacade combines all subscription-related repository interfaces
type SubscriptionRepositoryFacade interface {
	PlanReader
	PlanWriter
	SubscriptionReader
	SubscriptionWriter
}

// SubscriptionRepositoryWithTx extends SubscriptionRepositoryFacade with transactional state changes.
type SubscriptionRepositoryWithTx interface {
	SubscriptionRepositoryFacade
	TxRunner[SubscriptionTx]
}
