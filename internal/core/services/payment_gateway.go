package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/SscSPs/billistry/internal/utils"
)

// localGateway mints gateway subscription ids without calling out. The
// checkout is completed by a signed verify call or a webhook.
type localGateway struct{}

// NewLocalPaymentGateway returns the in-process PaymentGateway.
func NewLocalPaymentGateway() portssvc.PaymentGateway {
	return localGateway{}
}

func (localGateway) CreateSubscription(ctx context.Context, business domain.Business, plan domain.SubscriptionPlan) (string, error) {
	suffix, err := utils.GenerateSecureRandomString(12)
	if err != nil {
		return "", err
	}
	id := "sub_" + suffix
	middleware.GetLoggerFromCtx(ctx).Debug("Minted gateway subscription",
		slog.String("business_id", business.BusinessID),
		slog.String("plan_id", plan.PlanID),
		slog.String("gateway_subscription_id", id))
	return id, nil
}
