package services

import (
	"context"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
)

// SubscriptionSvcFacade drives the subscription lifecycle.
type SubscriptionSvcFacade interface {
	ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error)
	GetCurrentSubscription(ctx context.Context, actor domain.Actor) (*domain.Subscription, error)
	Checkout(ctx context.Context, actor domain.Actor, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)

	// VerifyPayment checks the gateway signature and activates the pending subscription.
	VerifyPayment(ctx context.Context, actor domain.Actor, req dto.VerifyPaymentRequest) (*domain.Subscription, error)

	// HandleWebhook verifies signature over body and applies the event.
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// PaymentGateway creates gateway-side subscriptions.
type PaymentGateway interface {
	CreateSubscription(ctx context.Context, business domain.Business, plan domain.SubscriptionPlan) (gatewaySubscriptionID string, err error)
}
