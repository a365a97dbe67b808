package dto

import "github.com/SscSPs/billistry/internal/core/domain"

// ListAuditLogsParams defines query parameters for listing audit logs.
type ListAuditLogsParams struct {
	BusinessID   string `form:"business_id"`
	UserID       string `form:"userID"`
	Action       string `form:"action"`
	ResourceType string `form:"resourceType"`
	From         string `form:"from"` // YYYY-MM-DD
	To           string `form:"to"`   // YYYY-MM-DD
	Page         int    `form:"page,default=1" binding:"gte=1"`
	Limit        int    `form:"limit,default=20" binding:"gte=1,lte=100"`
}

// ListAuditLogsResponse is one page of audit logs.
type ListAuditLogsResponse struct {
	Logs  []domain.AuditLog `json:"logs"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
