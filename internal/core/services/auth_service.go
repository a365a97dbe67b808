package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	portsrepo "github.com/SscSPs/billistry/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var errInvalidCredentials = apperrors.NewUnauthorizedError("invalid email or password")

// authService handles signup, login and session tokens.
type authService struct {
	BaseService
	cfg          *config.Config
	userRepo     portsrepo.UserRepositoryFacade
	businessRepo portsrepo.BusinessRepositoryFacade
	googleOAuth  portssvc.GoogleOAuthSvc
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, businessRepo portsrepo.BusinessRepositoryFacade, googleOAuth portssvc.GoogleOAuthSvc, opts ...ServiceOption) portssvc.AuthSvcFacade {
	svc := &authService{
		cfg:          cfg,
		userRepo:     userRepo,
		businessRepo: businessRepo,
		googleOAuth:  googleOAuth,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Signup creates the shopkeeper, their business and its trial in one store transaction.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, *domain.Business, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflictError("email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email during signup")
		return nil, nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := s.Now()
	userID := uuid.NewString()
	businessID := uuid.NewString()
	trialEnd := now.Add(time.Duration(s.cfg.TrialDays) * 24 * time.Hour)

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}

	user := domain.User{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		Role:         domain.RoleShopkeeper,
		BusinessID:   &businessID,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	business := domain.Business{
		BusinessID:         businessID,
		Name:               strings.TrimSpace(req.BusinessName),
		OwnerID:            userID,
		Phone:              req.BusinessPhone,
		Email:              email,
		Currency:           currency,
		Timezone:           timezone,
		InvoicePrefix:      domain.DefaultInvoicePrefix,
		InvoiceStartNumber: 1,
		SubscriptionExpiry: &trialEnd,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(userID, now),
	}
	trial := domain.Subscription{
		SubscriptionID: uuid.NewString(),
		BusinessID:     businessID,
		Status:         domain.StatusTrial,
		StartDate:      now,
		EndDate:        trialEnd,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if err := s.businessRepo.CreateBusinessWithOwner(ctx, user, business, trial); err != nil {
		s.LogError(ctx, err, "Failed to create business with owner", slog.String("email", email))
		return nil, nil, err
	}

	actor := user.Actor()
	s.record(ctx, actor, domain.ActionSignup, resourceBusiness, businessID, nil, business)
	s.LogInfo(ctx, "Shopkeeper signed up", slog.String("user_id", userID), slog.String("business_id", businessID))
	return &user, &business, nil
}

func usable(user *domain.User) bool {
	return user.IsActive && user.DeletedAt == nil
}

// Login checks email/password credentials. Every failure looks the same to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if !usable(user) || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.GetLogger(ctx).Warn("Login rejected", slog.String("user_id", user.UserID))
		return nil, errInvalidCredentials
	}

	s.record(ctx, user.Actor(), domain.ActionLogin, resourceUser, user.UserID, nil, nil)
	return user, nil
}

// LoginWithGoogle exchanges the code, validates the ID token and signs in
// the user registered under that Google identity or email.
func (s *authService) LoginWithGoogle(ctx context.Context, code string) (*domain.User, error) {
	if s.googleOAuth == nil {
		return nil, apperrors.NewAppError(apperrors.KindBadGateway, "google sign-in is not configured", nil)
	}
	token, err := s.googleOAuth.ExchangeCodeForToken(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Google code exchange failed")
		return nil, apperrors.NewAppError(apperrors.KindBadGateway, "failed to exchange google authorization code", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, apperrors.NewAppError(apperrors.KindBadGateway, "google response did not include an id token", nil)
	}
	payload, err := s.googleOAuth.ValidateGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		s.LogError(ctx, err, "Google ID token validation failed")
		return nil, apperrors.NewUnauthorizedError("invalid google id token")
	}

	subject := payload.Subject
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)

	user, err := s.userRepo.FindUserByProvider(ctx, domain.ProviderGoogle, subject)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		if email == "" || !verified {
			return nil, apperrors.NewUnauthorizedError("google account email is not verified")
		}
		user, err = s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewUnauthorizedError("no account is registered for this google email, sign up first")
			}
			return nil, err
		}
		// Link the Google identity to the existing account.
		user.ProviderUserID = &subject
		if user.PasswordHash == "" {
			user.AuthProvider = domain.ProviderGoogle
		}
		user.Touch(user.UserID, s.Now())
		if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
			s.LogError(ctx, err, "Failed to link google identity", slog.String("user_id", user.UserID))
			return nil, err
		}
	}
	if !usable(user) {
		return nil, apperrors.NewUnauthorizedError("account is disabled")
	}

	s.record(ctx, user.Actor(), domain.ActionLogin, resourceUser, user.UserID, nil, map[string]string{"provider": string(domain.ProviderGoogle)})
	return user, nil
}

// IssueSessionToken mints the session token for user.
func (s *authService) IssueSessionToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateSessionToken(*user, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token", slog.String("user_id", user.UserID))
		return "", time.Time{}, apperrors.NewInternalError("failed to issue session token", err)
	}
	return token, expiresAt, nil
}

// googleOAuthService implements portssvc.GoogleOAuthSvc.
type googleOAuthService struct {
	clientID     string
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthService creates a new instance of googleOAuthService.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthSvc {
	return &googleOAuthService{
		clientID: cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}
	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}
