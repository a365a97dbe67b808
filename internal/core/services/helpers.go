package services

import (
	"strings"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Resource types used in audit entries.
const (
	resourceUser         = "user"
	resourceBusiness     = "business"
	resourceParty        = "party"
	resourceCategory     = "category"
	resourceProduct      = "product"
	resourceCashbook     = "cashbook_entry"
	resourceSubscription = "subscription"
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// sameBusiness reports whether a record of businessID is visible to actor.
// A superadmin without a selected business sees every business.
func sameBusiness(actor domain.Actor, businessID *string) bool {
	if actor.Role == domain.RoleSuperAdmin && actor.BusinessID == "" {
		return true
	}
	return businessID != nil && *businessID == actor.BusinessID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dateOr returns the given date truncated to the day, or today.
func dateOr(d *time.Time, now time.Time) time.Time {
	if d == nil || d.IsZero() {
		return now.Truncate(24 * time.Hour)
	}
	return d.UTC()
}
