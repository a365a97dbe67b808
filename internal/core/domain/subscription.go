package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a purchasable plan.
type SubscriptionPlan struct {
	PlanID         string          `json:"planID"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	DurationInDays int             `json:"durationInDays"`
	Features       []string        `json:"features"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// Duration is the plan period.
func (p SubscriptionPlan) Duration() time.Duration {
	return time.Duration(p.DurationInDays) * 24 * time.Hour
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "trial"
	StatusPending   SubscriptionStatus = "pending" // checkout created, payment not verified
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusTrial:     {StatusActive, StatusExpired},
	StatusPending:   {StatusActive},
	StatusActive:    {StatusActive, StatusCancelled, StatusExpired},
	StatusCancelled: {StatusExpired},
}

// CanTransition reports whether from → to is allowed.
func CanTransition(from, to SubscriptionStatus) bool {
	for _, s := range subscriptionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Subscription tracks the plan a business pays for.
type Subscription struct {
	SubscriptionID        string             `json:"subscriptionID"`
	BusinessID            string             `json:"businessID"`
	PlanID                *string            `json:"planID,omitempty"` // nil for trials
	Status                SubscriptionStatus `json:"status"`
	StartDate             time.Time          `json:"startDate"`
	EndDate               time.Time          `json:"endDate"`
	GatewaySubscriptionID *string            `json:"gatewaySubscriptionID,omitempty"`
	GatewayPaymentID      *string            `json:"gatewayPaymentID,omitempty"`
	AuditFields
}

func (s *Subscription) transition(to SubscriptionStatus) error {
	if !CanTransition(s.Status, to) {
		return apperrors.NewConflictError(fmt.Sprintf("subscription cannot move from %s to %s", s.Status, to))
	}
	s.Status = to
	return nil
}

// Activate starts a paid period of plan at now.
func (s *Subscription) Activate(plan SubscriptionPlan, paymentID string, now time.Time) error {
	if s.Status == StatusActive {
		return apperrors.NewConflictError("subscription is already active")
	}
	if err := s.transition(StatusActive); err != nil {
		return err
	}
	planID := plan.PlanID
	s.PlanID = &planID
	s.StartDate = now
	s.EndDate = now.Add(plan.Duration())
	s.GatewayPaymentID = &paymentID
	return nil
}

// Renew extends an active subscription by one plan period from the later of
// its end date and now.
func (s *Subscription) Renew(plan SubscriptionPlan, paymentID string, now time.Time) error {
	if err := s.transition(StatusActive); err != nil {
		return err
	}
	from := s.EndDate
	if now.After(from) {
		from = now
	}
	s.EndDate = from.Add(plan.Duration())
	if paymentID != "" {
		s.GatewayPaymentID = &paymentID
	}
	return nil
}

// Cancel stops renewals. The paid period stays intact.
func (s *Subscription) Cancel() error {
	return s.transition(StatusCancelled)
}

// Expire ends the subscription no later than now.
func (s *Subscription) Expire(now time.Time) error {
	if err := s.transition(StatusExpired); err != nil {
		return err
	}
	if s.EndDate.After(now) {
		s.EndDate = now
	}
	return nil
}

// DefaultPlans are the plans an operator seeds on a fresh install. Callers
// assign PlanIDs; an upsert keeps the id of an existing plan with the same name.
func DefaultPlans(seededBy string, now time.Time) []SubscriptionPlan {
	audit := NewAuditFields(seededBy, now)
	return []SubscriptionPlan{
		{Name: "Monthly", Price: decimal.NewFromInt(299), DurationInDays: 30, Features: []string{"billing", "inventory", "cashbook"}, IsActive: true, AuditFields: audit},
		{Name: "Quarterly", Price: decimal.NewFromInt(799), DurationInDays: 90, Features: []string{"billing", "inventory", "cashbook", "reports"}, IsActive: true, AuditFields: audit},
		{Name: "Yearly", Price: decimal.NewFromInt(2999), DurationInDays: 365, Features: []string{"billing", "inventory", "cashbook", "reports", "staff"}, IsActive: true, AuditFields: audit},
	}
}
