package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
)

type subscriptionRepository struct {
	store *Store
}

func newSubscriptionRepository(store *Store) *subscriptionRepository {
	return &subscriptionRepository{store: store}
}

var _ portsrepo.SubscriptionRepositoryWithTx = (*subscriptionRepository)(nil)

func (r *subscriptionRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.SubscriptionTx) error) error {
	return r.store.write(ctx, func(st *state) error {
		return fn(ctx, &subscriptionTx{st: st})
	})
}

func (r *subscriptionRepository) FindPlanByID(ctx context.Context, planID string) (*domain.SubscriptionPlan, error) {
	var (
		plan *domain.SubscriptionPlan
		err  error
	)
	r.store.read(func(st *state) {
		plan, err = (&subscriptionTx{st: st}).FindPlanByID(ctx, planID)
	})
	return plan, err
}

func (r *subscriptionRepository) ListPlans(ctx context.Context, activeOnly bool) ([]domain.SubscriptionPlan, error) {
	var plans []domain.SubscriptionPlan
	r.store.read(func(st *state) {
		for _, p := range st.plans {
			if !activeOnly || p.IsActive {
				plans = append(plans, p)
			}
		}
	})
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].DurationInDays != plans[j].DurationInDays {
			return plans[i].DurationInDays < plans[j].DurationInDays
		}
		return plans[i].Name < plans[j].Name
	})
	return plans, nil
}

// UpsertPlan matches existing plans by name, case-insensitively, and keeps their id.
func (r *subscriptionRepository) UpsertPlan(ctx context.Context, plan domain.SubscriptionPlan) error {
	return r.store.write(ctx, func(st *state) error {
		for id, existing := range st.plans {
			if strings.EqualFold(existing.Name, plan.Name) {
				plan.PlanID = id
				plan.CreatedAt = existing.CreatedAt
				plan.CreatedBy = existing.CreatedBy
				break
			}
		}
		st.plans[plan.PlanID] = plan
		return nil
	})
}

func (r *subscriptionRepository) FindLatestSubscription(ctx context.Context, businessID string) (*domain.Subscription, error) {
	subs, _ := r.ListSubscriptionsByBusiness(ctx, businessID)
	if len(subs) == 0 {
		return nil, notFound("subscription")
	}
	return &subs[0], nil
}

// ListSubscriptionsByBusiness lists newest first.
func (r *subscriptionRepository) ListSubscriptionsByBusiness(ctx context.Context, businessID string) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	r.store.read(func(st *state) {
		for _, s := range st.subscriptions {
			if s.BusinessID == businessID {
				subs = append(subs, s)
			}
		}
	})
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.After(subs[j].CreatedAt)
		}
		return subs[i].SubscriptionID > subs[j].SubscriptionID
	})
	return subs, nil
}

func (st *state) gatewayIDTaken(sub domain.Subscription) bool {
	if sub.GatewaySubscriptionID == nil {
		return false
	}
	for _, other := range st.subscriptions {
		if other.SubscriptionID != sub.SubscriptionID && other.GatewaySubscriptionID != nil &&
			*other.GatewaySubscriptionID == *sub.GatewaySubscriptionID {
			return true
		}
	}
	return false
}

func (r *subscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	return r.store.write(ctx, func(st *state) error {
		if st.gatewayIDTaken(subscription) {
			return duplicate("gateway subscription")
		}
		st.subscriptions[subscription.SubscriptionID] = subscription
		return nil
	})
}

type subscriptionTx struct {
	st *state
}

var _ portsrepo.SubscriptionTx = (*subscriptionTx)(nil)

func (tx *subscriptionTx) LockSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	sub, ok := tx.st.subscriptions[subscriptionID]
	if !ok {
		return nil, notFound("subscription")
	}
	return &sub, nil
}

func (tx *subscriptionTx) LockSubscriptionByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*domain.Subscription, error) {
	for _, sub := range tx.st.subscriptions {
		if sub.GatewaySubscriptionID != nil && *sub.GatewaySubscriptionID == gatewaySubscriptionID {
			return &sub, nil
		}
	}
	return nil, notFound("subscription")
}

func (tx *subscriptionTx) FindPlanByID(ctx context.Context, planID string) (*domain.SubscriptionPlan, error) {
	plan, ok := tx.st.plans[planID]
	if !ok {
		return nil, notFound("plan")
	}
	return &plan, nil
}

func (tx *subscriptionTx) UpdateSubscription(ctx context.Context, subscription domain.Subscription) error {
	if _, ok := tx.st.subscriptions[subscription.SubscriptionID]; !ok {
		return notFound("subscription")
	}
	if tx.st.gatewayIDTaken(subscription) {
		return duplicate("gateway subscription")
	}
	tx.st.subscriptions[subscription.SubscriptionID] = subscription
	return nil
}

func (tx *subscriptionTx) LockActiveSubscription(ctx context.Context, businessID, exceptID string) (*domain.Subscription, error) {
	for id, sub := range tx.st.subscriptions {
		if sub.BusinessID == businessID && id != exceptID && sub.Status == domain.StatusActive {
			return &sub, nil
		}
	}
	return nil, notFound("subscription")
}

func (tx *subscriptionTx) CancelOtherActiveSubscriptions(ctx context.Context, businessID, keepID string, at time.Time, by string) error {
	for id, sub := range tx.st.subscriptions {
		if sub.BusinessID != businessID || id == keepID || sub.Status != domain.StatusActive {
			continue
		}
		sub.Status = domain.StatusCancelled
		sub.Touch(by, at)
		tx.st.subscriptions[id] = sub
	}
	return nil
}

func (tx *subscriptionTx) SetBusinessSubscription(ctx context.Context, businessID string, planID *string, expiry *time.Time, at time.Time, by string) error {
	business, ok := tx.st.businesses[businessID]
	if !ok {
		return notFound("business")
	}
	business.SubscriptionPlanID = planID
	business.SubscriptionExpiry = expiry
	business.Touch(by, at)
	tx.st.businesses[businessID] = business
	return nil
}
