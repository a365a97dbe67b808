package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/google/uuid"
)

// Gateway webhook events.
const (
	EventSubscriptionCharged   = "subscription.charged"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionCompleted = "subscription.completed"
	EventSubscriptionHalted    = "subscription.halted"
	EventSubscriptionExpired   = "subscription.expired"
)

// gatewayUserID attributes webhook changes in audit entries and audit fields.
const gatewayUserID = "payment-gateway"

var (
	errUnknownSubscription = errors.New("unknown gateway subscription")
	errPaymentApplied      = errors.New("payment already applied")
)

// subscriptionService is the subscription state holder. Every state change
// runs in one transaction and mirrors the expiry onto the business.
type subscriptionService struct {
	BaseService
	keySecret     string
	webhookSecret string
	subRepo       portsrepo.SubscriptionRepositoryWithTx
	businessRepo  portsrepo.BusinessReader
	gateway       portssvc.PaymentGateway
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	cfg *config.Config,
	subRepo portsrepo.SubscriptionRepositoryWithTx,
	businessRepo portsrepo.BusinessReader,
	gateway portssvc.PaymentGateway,
	opts ...ServiceOption,
) portssvc.SubscriptionSvcFacade {
	svc := &subscriptionService{
		keySecret:     cfg.PaymentKeySecret,
		webhookSecret: cfg.PaymentWebhookSecret,
		subRepo:       subRepo,
		businessRepo:  businessRepo,
		gateway:       gateway,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

func (s *subscriptionService) ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	plans, err := s.subRepo.ListPlans(ctx, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list plans")
		return nil, err
	}
	if plans == nil {
		plans = []domain.SubscriptionPlan{}
	}
	return plans, nil
}

func (s *subscriptionService) GetCurrentSubscription(ctx context.Context, actor domain.Actor) (*domain.Subscription, error) {
	if err := actor.ScopedTo(domain.AllRoles...); err != nil {
		return nil, err
	}
	return s.subRepo.FindLatestSubscription(ctx, actor.BusinessID)
}

// Checkout opens a pending subscription for plan at the gateway.
func (s *subscriptionService) Checkout(ctx context.Context, actor domain.Actor, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	plan, err := s.subRepo.FindPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("plan not found")
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperrors.NewValidationError("plan is not available")
	}
	business, err := s.businessRepo.FindBusinessByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, apperrors.NewAppError(apperrors.KindBadGateway, "payment gateway is not configured", nil)
	}
	gatewayID, err := s.gateway.CreateSubscription(ctx, *business, *plan)
	if err != nil {
		s.LogError(ctx, err, "Payment gateway rejected checkout", slog.String("plan_id", plan.PlanID))
		return nil, apperrors.NewAppError(apperrors.KindBadGateway, "payment gateway is unavailable", err)
	}

	now := s.Now()
	planID := plan.PlanID
	sub := domain.Subscription{
		SubscriptionID:        uuid.NewString(),
		BusinessID:            actor.BusinessID,
		PlanID:                &planID,
		Status:                domain.StatusPending,
		StartDate:             now,
		EndDate:               now,
		GatewaySubscriptionID: &gatewayID,
		AuditFields:           domain.NewAuditFields(actor.UserID, now),
	}
	if err := s.subRepo.SaveSubscription(ctx, sub); err != nil {
		s.LogError(ctx, err, "Failed to save pending subscription", slog.String("gateway_subscription_id", gatewayID))
		return nil, err
	}

	s.record(ctx, actor, domain.ActionCreate, resourceSubscription, sub.SubscriptionID, nil, sub)
	return &dto.CheckoutResponse{SubscriptionID: sub.SubscriptionID, GatewaySubscriptionID: gatewayID, Plan: *plan}, nil
}

// VerifyPayment activates a pending subscription once the gateway's signed
// checkout result checks out.
func (s *subscriptionService) VerifyPayment(ctx context.Context, actor domain.Actor, req dto.VerifyPaymentRequest) (*domain.Subscription, error) {
	if err := actor.ScopedTo(domain.RoleShopkeeper); err != nil {
		return nil, err
	}
	message := []byte(req.GatewayPaymentID + "|" + req.GatewaySubscriptionID)
	if !utils.VerifyHMAC(s.keySecret, message, req.Signature) {
		s.GetLogger(ctx).Warn("Payment signature mismatch", slog.String("subscription_id", req.SubscriptionID))
		return nil, apperrors.NewValidationError("invalid payment signature")
	}

	var before, sub domain.Subscription
	err := s.subRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.SubscriptionTx) error {
		locked, err := tx.LockSubscription(ctx, req.SubscriptionID)
		if err != nil {
			return err
		}
		if locked.BusinessID != actor.BusinessID {
			return apperrors.NewNotFoundError("subscription not found")
		}
		if locked.GatewaySubscriptionID == nil || *locked.GatewaySubscriptionID != req.GatewaySubscriptionID {
			return apperrors.NewConflictError("gateway subscription does not match")
		}
		if locked.Status != domain.StatusPending || locked.PlanID == nil {
			return apperrors.NewConflictError("subscription is not awaiting payment")
		}
		plan, err := tx.FindPlanByID(ctx, *locked.PlanID)
		if err != nil {
			return err
		}

		before = *locked
		sub = *locked
		now := s.Now()
		if err := sub.Activate(*plan, req.GatewayPaymentID, now); err != nil {
			return err
		}
		sub.Touch(actor.UserID, now)
		if err := tx.UpdateSubscription(ctx, sub); err != nil {
			return err
		}
		if err := tx.CancelOtherActiveSubscriptions(ctx, sub.BusinessID, sub.SubscriptionID, now, actor.UserID); err != nil {
			return err
		}
		return tx.SetBusinessSubscription(ctx, sub.BusinessID, sub.PlanID, &sub.EndDate, now, actor.UserID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to verify payment", slog.String("subscription_id", req.SubscriptionID))
		return nil, err
	}

	s.LogInfo(ctx, "Subscription activated", slog.String("subscription_id", sub.SubscriptionID), slog.Time("end_date", sub.EndDate))
	s.record(ctx, actor, domain.ActionActivate, resourceSubscription, sub.SubscriptionID, before, sub)
	return &sub, nil
}

// applyEvent moves sub according to a gateway event and returns the audit action.
func applyEvent(ctx context.Context, tx portsrepo.SubscriptionTx, sub *domain.Subscription, event, paymentID string, at time.Time) (domain.AuditAction, error) {
	switch event {
	case EventSubscriptionCharged:
		if paymentID != "" && sub.GatewayPaymentID != nil && *sub.GatewayPaymentID == paymentID {
			return "", errPaymentApplied
		}
		if sub.PlanID == nil {
			return "", apperrors.NewConflictError("subscription has no plan to renew")
		}
		plan, err := tx.FindPlanByID(ctx, *sub.PlanID)
		if err != nil {
			return "", err
		}
		if sub.Status == domain.StatusPending {
			return domain.ActionActivate, sub.Activate(*plan, paymentID, at)
		}
		return domain.ActionRenew, sub.Renew(*plan, paymentID, at)
	case EventSubscriptionCancelled:
		return domain.ActionCancel, sub.Cancel()
	default:
		return domain.ActionExpire, sub.Expire(at)
	}
}

func knownEvent(event string) bool {
	switch event {
	case EventSubscriptionCharged, EventSubscriptionCancelled,
		EventSubscriptionCompleted, EventSubscriptionHalted, EventSubscriptionExpired:
		return true
	}
	return false
}

// HandleWebhook applies a signed gateway event. Events that cannot apply are
// acknowledged so the gateway stops retrying them.
func (s *subscriptionService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	logger := s.GetLogger(ctx)
	if !utils.VerifyHMAC(s.webhookSecret, body, signature) {
		logger.Warn("Webhook signature mismatch")
		return apperrors.NewValidationError("invalid webhook signature")
	}
	var payload dto.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperrors.NewValidationError("malformed webhook body")
	}
	if !knownEvent(payload.Event) {
		logger.Info("Ignoring webhook event", slog.String("event", payload.Event))
		return nil
	}
	if payload.Payload.Subscription == nil || payload.Payload.Subscription.Entity.ID == "" {
		logger.Warn("Webhook event without subscription", slog.String("event", payload.Event))
		return nil
	}
	gatewayID := payload.Payload.Subscription.Entity.ID
	paymentID := ""
	if payload.Payload.Payment != nil {
		paymentID = payload.Payload.Payment.Entity.ID
	}

	var (
		before, sub domain.Subscription
		action      domain.AuditAction
	)
	err := s.subRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.SubscriptionTx) error {
		locked, err := tx.LockSubscriptionByGatewayID(ctx, gatewayID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return errUnknownSubscription
			}
			return err
		}
		before = *locked
		sub = *locked
		now := s.Now()
		if action, err = applyEvent(ctx, tx, &sub, payload.Event, paymentID, now); err != nil {
			return err
		}
		sub.Touch(gatewayUserID, now)
		if err := tx.UpdateSubscription(ctx, sub); err != nil {
			return err
		}
		if sub.Status == domain.StatusActive {
			if err := tx.CancelOtherActiveSubscriptions(ctx, sub.BusinessID, sub.SubscriptionID, now, gatewayUserID); err != nil {
				return err
			}
			return tx.SetBusinessSubscription(ctx, sub.BusinessID, sub.PlanID, &sub.EndDate, now, gatewayUserID)
		}

		// A superseded subscription winding down must not override the one in force.
		inForce, err := tx.LockActiveSubscription(ctx, sub.BusinessID, sub.SubscriptionID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return tx.SetBusinessSubscription(ctx, sub.BusinessID, sub.PlanID, &sub.EndDate, now, gatewayUserID)
		case err != nil:
			return err
		}
		return tx.SetBusinessSubscription(ctx, sub.BusinessID, inForce.PlanID, &inForce.EndDate, now, gatewayUserID)
	})

	attrs := []any{slog.String("event", payload.Event), slog.String("gateway_subscription_id", gatewayID)}
	switch {
	case errors.Is(err, errUnknownSubscription):
		logger.Warn("Webhook for unknown subscription", attrs...)
		return nil
	case errors.Is(err, errPaymentApplied):
		logger.Info("Webhook payment already applied", attrs...)
		return nil
	case err != nil && apperrors.KindOf(err) == apperrors.KindConflict:
		logger.Warn("Webhook event does not apply", append(attrs, slog.String("reason", err.Error()))...)
		return nil
	case err != nil:
		s.LogError(ctx, err, "Failed to apply webhook event", attrs...)
		return err
	}

	logger.Info("Webhook event applied", append(attrs, slog.String("status", string(sub.Status)))...)
	gateway := domain.Actor{UserID: gatewayUserID, BusinessID: sub.BusinessID}
	s.record(ctx, gateway, action, resourceSubscription, sub.SubscriptionID, before, sub)
	return nil
}

// SeedDefaultPlans upserts domain.DefaultPlans and returns how many were written.
func SeedDefaultPlans(ctx context.Context, plans portsrepo.PlanWriter, seededBy string, now time.Time) (int, error) {
	defaults := domain.DefaultPlans(seededBy, now)
	for i := range defaults {
		defaults[i].PlanID = uuid.NewString()
		if err := plans.UpsertPlan(ctx, defaults[i]); err != nil {
			return i, err
		}
	}
	return len(defaults), nil
}
