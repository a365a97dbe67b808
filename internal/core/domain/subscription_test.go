package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_Lifecycle(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	plan := domain.SubscriptionPlan{PlanID: "plan-monthly", DurationInDays: 30}

	sub := domain.Subscription{Status: domain.StatusPending}
	require.NoError(t, sub.Activate(plan, "pay_1", now))
	assert.Equal(t, domain.StatusActive, sub.Status)
	assert.Equal(t, now, sub.StartDate)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.EndDate)
	assert.Equal(t, "plan-monthly", *sub.PlanID)

	// renewing before the end extends from the end date
	require.NoError(t, sub.Renew(plan, "pay_2", now.AddDate(0, 0, 10)))
	assert.Equal(t, now.AddDate(0, 0, 60), sub.EndDate)
	assert.Equal(t, "pay_2", *sub.GatewayPaymentID)

	// renewing after the end extends from now
	late := now.AddDate(0, 0, 90)
	require.NoError(t, sub.Renew(plan, "", late))
	assert.Equal(t, late.AddDate(0, 0, 30), sub.EndDate)
	assert.Equal(t, "pay_2", *sub.GatewayPaymentID)

	require.NoError(t, sub.Cancel())
	assert.Equal(t, domain.StatusCancelled, sub.Status)

	require.NoError(t, sub.Expire(late))
	assert.Equal(t, domain.StatusExpired, sub.Status)
	assert.Equal(t, late, sub.EndDate)
}

func TestSubscription_InvalidTransitions(t *testing.T) {
	now := time.Now()
	plan := domain.SubscriptionPlan{PlanID: "p", DurationInDays: 30}

	active := domain.Subscription{Status: domain.StatusActive}
	err := active.Activate(plan, "pay", now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	expired := domain.Subscription{Status: domain.StatusExpired}
	assert.True(t, errors.Is(expired.Cancel(), apperrors.ErrConflict))
	assert.True(t, errors.Is(expired.Renew(plan, "pay", now), apperrors.ErrConflict))

	pending := domain.Subscription{Status: domain.StatusPending}
	assert.Error(t, pending.Cancel())
	assert.True(t, domain.CanTransition(domain.StatusTrial, domain.StatusActive))
	assert.False(t, domain.CanTransition(domain.StatusCancelled, domain.StatusActive))
}

func TestActor_Allow(t *testing.T) {
	staff := domain.Actor{UserID: "u1", BusinessID: "b1", Role: domain.RoleStaff}
	assert.NoError(t, staff.Allow(domain.RoleShopkeeper, domain.RoleStaff))
	assert.True(t, errors.Is(staff.Allow(domain.RoleShopkeeper), apperrors.ErrForbidden))

	admin := domain.Actor{UserID: "root", Role: domain.RoleSuperAdmin}
	assert.NoError(t, admin.Allow(domain.RoleShopkeeper))
	assert.True(t, errors.Is(admin.ScopedTo(domain.RoleShopkeeper), apperrors.ErrValidation))

	orphan := domain.Actor{UserID: "u2", Role: domain.RoleShopkeeper}
	assert.True(t, errors.Is(orphan.ScopedTo(domain.RoleShopkeeper), apperrors.ErrForbidden))
}
