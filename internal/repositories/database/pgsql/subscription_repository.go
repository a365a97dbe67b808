package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSubscriptionRepository struct {
	BaseRepository
}

func newPgxSubscriptionRepository(pool *pgxpool.Pool) portsrepo.SubscriptionRepositoryWithTx {
	return &PgxSubscriptionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SubscriptionRepositoryWithTx = (*PgxSubscriptionRepository)(nil)

func (r *PgxSubscriptionRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.SubscriptionTx) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxSubscriptionTx{tx: tx})
	})
}

const planColumns = `plan_id, name, price, duration_in_days, features, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPlan(row pgx.Row) (domain.SubscriptionPlan, error) {
	var p domain.SubscriptionPlan
	err := row.Scan(
		&p.PlanID,
		&p.Name,
		&p.Price,
		&p.DurationInDays,
		&p.Features,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func findPlan(ctx context.Context, q querier, planID string) (*domain.SubscriptionPlan, error) {
	plan, err := scanPlan(q.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE plan_id = $1;`, planID))
	if err != nil {
		return nil, mapError(err, "plan")
	}
	return &plan, nil
}

func (r *PgxSubscriptionRepository) FindPlanByID(ctx context.Context, planID string) (*domain.SubscriptionPlan, error) {
	return findPlan(ctx, r.Pool, planID)
}

func (r *PgxSubscriptionRepository) ListPlans(ctx context.Context, activeOnly bool) ([]domain.SubscriptionPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM subscription_plans
		WHERE is_active OR NOT $1
		ORDER BY duration_in_days, name;
	`
	rows, err := r.Pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, mapError(err, "plans")
	}
	plans, err := collect(rows, scanPlan)
	return plans, mapError(err, "plans")
}

// UpsertPlan matches by lower(name) and keeps the existing id and creation stamp.
func (r *PgxSubscriptionRepository) UpsertPlan(ctx context.Context, plan domain.SubscriptionPlan) error {
	if plan.Features == nil {
		plan.Features = []string{}
	}
	query := `
		INSERT INTO subscription_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ((lower(name))) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			duration_in_days = EXCLUDED.duration_in_days,
			features = EXCLUDED.features,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		plan.PlanID,
		plan.Name,
		plan.Price,
		plan.DurationInDays,
		plan.Features,
		plan.IsActive,
		plan.CreatedAt,
		plan.CreatedBy,
		plan.LastUpdatedAt,
		plan.LastUpdatedBy,
	)
	return mapError(err, "plan")
}

const subscriptionColumns = `subscription_id, business_id, plan_id, status, start_date, end_date,
	gateway_subscription_id, gateway_payment_id, created_at, created_by, last_updated_at, last_updated_by`

func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(
		&s.SubscriptionID,
		&s.BusinessID,
		&s.PlanID,
		&s.Status,
		&s.StartDate,
		&s.EndDate,
		&s.GatewaySubscriptionID,
		&s.GatewayPaymentID,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	return s, err
}

func insertSubscription(ctx context.Context, q querier, s domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := q.Exec(ctx, query,
		s.SubscriptionID,
		s.BusinessID,
		s.PlanID,
		s.Status,
		s.StartDate,
		s.EndDate,
		s.GatewaySubscriptionID,
		s.GatewayPaymentID,
		s.CreatedAt,
		s.CreatedBy,
		s.LastUpdatedAt,
		s.LastUpdatedBy,
	)
	return mapError(err, "gateway subscription")
}

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	return insertSubscription(ctx, r.Pool, subscription)
}

func (r *PgxSubscriptionRepository) FindLatestSubscription(ctx context.Context, businessID string) (*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE business_id = $1
		ORDER BY created_at DESC, subscription_id DESC
		LIMIT 1;
	`
	s, err := scanSubscription(r.Pool.QueryRow(ctx, query, businessID))
	if err != nil {
		return nil, mapError(err, "subscription")
	}
	return &s, nil
}

func (r *PgxSubscriptionRepository) ListSubscriptionsByBusiness(ctx context.Context, businessID string) ([]domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE business_id = $1
		ORDER BY created_at DESC, subscription_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, mapError(err, "subscriptions")
	}
	subs, err := collect(rows, scanSubscription)
	return subs, mapError(err, "subscriptions")
}

type pgxSubscriptionTx struct {
	tx pgx.Tx
}

var _ portsrepo.SubscriptionTx = (*pgxSubscriptionTx)(nil)

func (t *pgxSubscriptionTx) lockOne(ctx context.Context, cond string, arg string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE ` + cond + ` FOR UPDATE;`
	s, err := scanSubscription(t.tx.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapError(err, "subscription")
	}
	return &s, nil
}

func (t *pgxSubscriptionTx) LockSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return t.lockOne(ctx, "subscription_id = $1", subscriptionID)
}

func (t *pgxSubscriptionTx) LockSubscriptionByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*domain.Subscription, error) {
	return t.lockOne(ctx, "gateway_subscription_id = $1", gatewaySubscriptionID)
}

func (t *pgxSubscriptionTx) FindPlanByID(ctx context.Context, planID string) (*domain.SubscriptionPlan, error) {
	return findPlan(ctx, t.tx, planID)
}

func (t *pgxSubscriptionTx) UpdateSubscription(ctx context.Context, s domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan_id = $2, status = $3, start_date = $4, end_date = $5, gateway_subscription_id = $6,
		    gateway_payment_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE subscription_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query,
		s.SubscriptionID,
		s.PlanID,
		s.Status,
		s.StartDate,
		s.EndDate,
		s.GatewaySubscriptionID,
		s.GatewayPaymentID,
		s.LastUpdatedAt,
		s.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "gateway subscription")
	}
	return requireRow(tag, "subscription")
}

func (t *pgxSubscriptionTx) LockActiveSubscription(ctx context.Context, businessID, exceptID string) (*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE business_id = $1 AND subscription_id <> $2 AND status = $3
		ORDER BY end_date DESC
		LIMIT 1
		FOR UPDATE;
	`
	s, err := scanSubscription(t.tx.QueryRow(ctx, query, businessID, exceptID, domain.StatusActive))
	if err != nil {
		return nil, mapError(err, "subscription")
	}
	return &s, nil
}

func (t *pgxSubscriptionTx) CancelOtherActiveSubscriptions(ctx context.Context, businessID, keepID string, at time.Time, by string) error {
	query := `
		UPDATE subscriptions
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE business_id = $1 AND subscription_id <> $2 AND status = $6;
	`
	_, err := t.tx.Exec(ctx, query, businessID, keepID, domain.StatusCancelled, at, by, domain.StatusActive)
	return mapError(err, "subscriptions")
}

func (t *pgxSubscriptionTx) SetBusinessSubscription(ctx context.Context, businessID string, planID *string, expiry *time.Time, at time.Time, by string) error {
	query := `
		UPDATE businesses
		SET subscription_plan_id = $2, subscription_expiry = $3, last_updated_at = $4, last_updated_by = $5
		WHERE business_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query, businessID, planID, expiry, at, by)
	if err != nil {
		return mapError(err, "business")
	}
	return requireRow(tag, "business")
}
