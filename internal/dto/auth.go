package dto

import "time"

// SignupRequest registers a shopkeeper together with their business.
type SignupRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	BusinessName  string `json:"businessName" binding:"required"`
	BusinessPhone string `json:"businessPhone" binding:"omitempty,mobile"`
	Currency      string `json:"currency" binding:"omitempty,len=3"`
	Timezone      string `json:"timezone" binding:"omitempty,timezone"`
}

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ExchangeCodeRequest defines the expected JSON body for the /google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginResponse represents the response for a successful login.
// The token is also set as an HTTP-only session cookie.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
