package services

import (
	"context"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// AuthSvcFacade covers signup, login and session issuing.
type AuthSvcFacade interface {
	// Signup creates a shopkeeper, their business and a trial subscription atomically.
	Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, *domain.Business, error)

	// Login checks email/password credentials.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.User, error)

	// LoginWithGoogle exchanges an authorization code and signs in the matching user.
	LoginWithGoogle(ctx context.Context, code string) (*domain.User, error)

	// IssueSessionToken mints the signed session token for user.
	IssueSessionToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthSvc talks to Google's OAuth endpoints.
type GoogleOAuthSvc interface {
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
