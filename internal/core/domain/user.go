package domain

import "time"

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents a user of the application in the domain.
type User struct {
	UserID         string       `json:"userID"` // Primary Key (e.g., UUID)
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID *string      `json:"-"`
	Role           Role         `json:"role"`
	BusinessID     *string      `json:"businessID,omitempty"`
	IsActive       bool         `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// Actor returns the user as a caller scoped to its own business.
func (u User) Actor() Actor {
	a := Actor{UserID: u.UserID, Role: u.Role}
	if u.BusinessID != nil {
		a.BusinessID = *u.BusinessID
	}
	return a
}
