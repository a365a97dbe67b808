package dto

import "time"

// PrintTokenRequest asks for a short-lived print link.
type PrintTokenRequest struct {
	Copies int `json:"copies" binding:"omitempty,gte=1,lte=5"`
}

// PrintTokenResponse carries the print link.
type PrintTokenResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
