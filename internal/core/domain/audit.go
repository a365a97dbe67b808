package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names what happened to a resource.
type AuditAction string

const (
	ActionCreate   AuditAction = "create"
	ActionUpdate   AuditAction = "update"
	ActionDelete   AuditAction = "delete"
	ActionLogin    AuditAction = "login"
	ActionSignup   AuditAction = "signup"
	ActionActivate AuditAction = "activate"
	ActionRenew    AuditAction = "renew"
	ActionCancel   AuditAction = "cancel"
	ActionExpire   AuditAction = "expire"
)

// AuditLog is an immutable record of a mutation.
type AuditLog struct {
	AuditID      string          `json:"auditID"`
	BusinessID   *string         `json:"businessID,omitempty"`
	UserID       string          `json:"userID"`
	Action       AuditAction     `json:"action"`
	ResourceType string          `json:"resourceType"`
	ResourceID   string          `json:"resourceID"`
	Before       json.RawMessage `json:"before,omitempty"`
	After        json.RawMessage `json:"after,omitempty"`
	IP           string          `json:"ip,omitempty"`
	UserAgent    string          `json:"userAgent,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// AuditLogFilter narrows an audit listing. Empty fields do not filter.
type AuditLogFilter struct {
	BusinessID   string
	UserID       string
	Action       AuditAction
	ResourceType string
	DateRange
}

// Matches reports whether l passes the filter.
func (f AuditLogFilter) Matches(l AuditLog) bool {
	if f.BusinessID != "" && (l.BusinessID == nil || *l.BusinessID != f.BusinessID) {
		return false
	}
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.Action != "" && l.Action != f.Action {
		return false
	}
	if f.ResourceType != "" && l.ResourceType != f.ResourceType {
		return false
	}
	return f.Contains(l.CreatedAt)
}
