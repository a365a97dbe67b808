package handlers

import (
	"net/http"

	"github.com/SscSPs/billistry/cmd/docs"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter *limiter.Limiter,
) {
	RegisterValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public routes: authentication, print links and the gateway webhook
	registerAuthRoutes(r, cfg, services, loginLimiter)
	registerPrintRoutes(r, services.Print)
	registerWebhookRoutes(r, services.Subscription)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName))

	registerUserRoutes(v1, service.User)
	registerBusinessRoutes(v1, service.Business)
	registerPartyRoutes(v1, service.Party)
	registerCatalogRoutes(v1, service.Category, service.Product)
	registerInvoiceRoutes(v1, service.Invoice, service.Print)
	registerReturnRoutes(v1, service.Return, service.Invoice, service.Print)
	registerCashbookRoutes(v1, service.Cashbook)
	registerSubscriptionRoutes(v1, service.Subscription)
	registerReportingRoutes(v1, service.Reporting, service.Audit)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
