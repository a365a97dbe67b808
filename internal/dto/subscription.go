package dto

import "github.com/SscSPs/billistry/internal/core/domain"

// CheckoutRequest starts a paid subscription for a plan.
type CheckoutRequest struct {
	PlanID string `json:"planID" binding:"required"`
}

// CheckoutResponse carries what the client hands to the payment gateway.
type CheckoutResponse struct {
	SubscriptionID        string                  `json:"subscriptionID"`
	GatewaySubscriptionID string                  `json:"gatewaySubscriptionID"`
	Plan                  domain.SubscriptionPlan `json:"plan"`
}

// VerifyPaymentRequest confirms a checkout with the gateway's signed result.
type VerifyPaymentRequest struct {
	SubscriptionID        string `json:"subscriptionID" binding:"required"`
	GatewayPaymentID      string `json:"gatewayPaymentID" binding:"required"`
	GatewaySubscriptionID string `json:"gatewaySubscriptionID" binding:"required"`
	Signature             string `json:"signature" binding:"required,hexadecimal"`
}

// WebhookEntity is the id wrapper the gateway uses for nested objects.
type WebhookEntity struct {
	Entity struct {
		ID     string `json:"id"`
		Status string `json:"status,omitempty"`
	} `json:"entity"`
}

// WebhookPayload is the gateway webhook body.
type WebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Subscription *WebhookEntity `json:"subscription"`
		Payment      *WebhookEntity `json:"payment"`
	} `json:"payload"`
}

// ListPlansResponse wraps the available plans.
type ListPlansResponse struct {
	Plans []domain.SubscriptionPlan `json:"plans"`
}
