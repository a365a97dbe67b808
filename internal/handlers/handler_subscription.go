package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/gin-gonic/gin"
)

// WebhookSignatureHeader carries the hex HMAC of the raw webhook body.
const WebhookSignatureHeader = "X-Webhook-Signature"

// maxWebhookBody is the largest webhook body accepted.
const maxWebhookBody = 1 << 20

type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := &subscriptionHandler{subscriptionService: subscriptionService}

	subs := rg.Group("/subscriptions")
	{
		subs.GET("/plans", h.listPlans)
		subs.GET("/current", h.currentSubscription)
		subs.POST("/checkout", middleware.RequireRoles(domain.RoleShopkeeper), h.checkout)
		subs.POST("/verify", middleware.RequireRoles(domain.RoleShopkeeper), h.verifyPayment)
	}
}

// registerWebhookRoutes registers the gateway webhook. It is authenticated by
// its body signature, not by a session.
func registerWebhookRoutes(r *gin.Engine, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := &subscriptionHandler{subscriptionService: subscriptionService}
	r.POST("/api/subscription/webhook", h.webhook)
}

// listPlans godoc
// @Summary List subscription plans
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.ListPlansResponse
// @Security BearerAuth
// @Router /subscriptions/plans [get]
func (h *subscriptionHandler) listPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list plans")
		return
	}
	c.JSON(http.StatusOK, dto.ListPlansResponse{Plans: plans})
}

// currentSubscription godoc
// @Summary Current subscription of the business
// @Tags subscriptions
// @Produce json
// @Success 200 {object} domain.Subscription
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/current [get]
func (h *subscriptionHandler) currentSubscription(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.GetCurrentSubscription(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to get current subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// checkout godoc
// @Summary Start a paid subscription
// @Description Creates a pending subscription and the gateway subscription id to pay against.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest true "Plan"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 404 {object} dto.ErrorResponse "Plan not found"
// @Failure 502 {object} dto.ErrorResponse "Gateway failure"
// @Security BearerAuth
// @Router /subscriptions/checkout [post]
func (h *subscriptionHandler) checkout(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "checkout request")
		return
	}
	resp, err := h.subscriptionService.Checkout(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Checkout failed")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// verifyPayment godoc
// @Summary Verify a checkout payment
// @Description Checks the gateway signature and activates the pending subscription.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param verify body dto.VerifyPaymentRequest true "Gateway result"
// @Success 200 {object} domain.Subscription
// @Failure 400 {object} dto.ErrorResponse "Bad signature"
// @Failure 409 {object} dto.ErrorResponse "Subscription is not pending"
// @Security BearerAuth
// @Router /subscriptions/verify [post]
func (h *subscriptionHandler) verifyPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "verify request")
		return
	}
	sub, err := h.subscriptionService.VerifyPayment(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Payment verification failed")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Subscription activated", slog.String("subscription_id", sub.SubscriptionID))
	c.JSON(http.StatusOK, sub)
}

// webhook godoc
// @Summary Payment gateway webhook
// @Description Verifies the body signature and applies charged, cancelled and expiry events.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "Hex HMAC-SHA256 of the body"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Router /subscription/webhook [post]
func (h *subscriptionHandler) webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		respondError(c, apperrors.NewValidationError("failed to read webhook body"), "Failed to read webhook body")
		return
	}
	if len(body) > maxWebhookBody {
		respondError(c, apperrors.NewValidationError("webhook body too large"), "Webhook body too large")
		return
	}
	if err := h.subscriptionService.HandleWebhook(c.Request.Context(), body, c.GetHeader(WebhookSignatureHeader)); err != nil {
		respondError(c, err, "Webhook rejected")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
