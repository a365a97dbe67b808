package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
)

// DateLayout is the wire format of date-only query values.
const DateLayout = "2006-01-02"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// NewAuditFields stamps both the creation and the update pair.
func NewAuditFields(userID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// Touch records an update by userID.
func (a *AuditFields) Touch(userID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// SoftDelete marks an entity as removed while keeping it stored.
type SoftDelete struct {
	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// DateRange bounds a query by date. Nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// ParseDateRange parses inclusive YYYY-MM-DD bounds. Empty bounds stay open.
// The upper bound covers its whole day.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return r, apperrors.NewValidationError(fmt.Sprintf("invalid from date %q, expected YYYY-MM-DD", from))
		}
		r.From = &t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return r, apperrors.NewValidationError(fmt.Sprintf("invalid to date %q, expected YYYY-MM-DD", to))
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		r.To = &end
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, apperrors.NewValidationError("from date must not be after to date")
	}
	return r, nil
}
