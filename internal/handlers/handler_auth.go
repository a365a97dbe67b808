package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles signup, login and session requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{authService: as, userService: us, cfg: cfg}
}

// registerAuthRoutes sets up the public authentication routes. Signup and
// both logins share one per-IP limiter.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(services.Auth, services.User, cfg)
	limit := middleware.RateLimit(loginLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/signup", limit, h.signup)
		auth.POST("/login", limit, h.login)
		auth.POST("/google/exchange-code", limit, h.exchangeCodeGoogle)
		auth.POST("/logout", h.logout)
		auth.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName), h.me)
	}
}

// setSession issues the session token for user, sets it as an HTTP-only
// cookie and answers with the login response.
func (h *authHandler) setSession(c *gin.Context, status int, user *domain.User) {
	token, expiresAt, err := h.authService.IssueSessionToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to issue session token")
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, token, maxAge, "/", h.cfg.SessionCookieDomain, h.cfg.SessionCookieSecure, true)
	c.JSON(status, dto.LoginResponse{Token: token, ExpiresAt: expiresAt, User: dto.ToUserResponse(user)})
}

// signup godoc
// @Summary Register a shopkeeper and their business
// @Description Creates the shopkeeper, the business and a trial subscription, then signs the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Signup details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/signup [post]
func (h *authHandler) signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "signup request")
		return
	}
	user, business, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Signup failed")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Signup completed",
		slog.String("user_id", user.UserID), slog.String("business_id", business.BusinessID))
	h.setSession(c, http.StatusCreated, user)
}

// login godoc
// @Summary User login
// @Description Authenticates with email and password, sets the session cookie and returns the token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "login request")
		return
	}
	user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	h.setSession(c, http.StatusOK, user)
}

// exchangeCodeGoogle godoc
// @Summary Sign in with Google
// @Description Exchanges a Google authorization code and signs in the matching registered user.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Google could not be reached"
// @Router /auth/google/exchange-code [post]
func (h *authHandler) exchangeCodeGoogle(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "exchange code request")
		return
	}
	user, err := h.authService.LoginWithGoogle(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "Google sign-in failed")
		return
	}
	h.setSession(c, http.StatusOK, user)
}

// logout godoc
// @Summary Log out
// @Description Clears the session cookie.
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, "", -1, "/", h.cfg.SessionCookieDomain, h.cfg.SessionCookieSecure, true)
	c.Status(http.StatusNoContent)
}

// me godoc
// @Summary Current user
// @Description Returns the signed-in user.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	user, err := h.userService.GetCurrentUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "Failed to load current user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
