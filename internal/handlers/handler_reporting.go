package handlers

import (
	"net/http"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the business overview and the audit trail.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	auditService     portssvc.AuditSvcFacade
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := &reportingHandler{reportingService: reportingService, auditService: auditService}

	rg.GET("/reports/overview", h.overview)
	rg.GET("/audit-logs", middleware.RequireRoles(domain.RoleShopkeeper), h.listAuditLogs)
}

// overview godoc
// @Summary Business overview
// @Description Sales, purchases, returns and expenses in the range, plus receivables, payables and low-stock count.
// @Tags reports
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} domain.BusinessOverview
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reports/overview [get]
func (h *reportingHandler) overview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.OverviewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	dateRange, err := domain.ParseDateRange(params.From, params.To)
	if err != nil {
		respondError(c, err, "Invalid overview range")
		return
	}
	overview, err := h.reportingService.Overview(c.Request.Context(), actor, dateRange)
	if err != nil {
		respondError(c, err, "Failed to build overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// listAuditLogs godoc
// @Summary List audit logs
// @Description Superadmins may filter by business; everyone else sees their own business.
// @Tags audit
// @Produce json
// @Param userID query string false "User filter"
// @Param action query string false "Action filter"
// @Param resourceType query string false "Resource type filter"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} dto.ListAuditLogsResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *reportingHandler) listAuditLogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	resp, err := h.auditService.ListAuditLogs(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, resp)
}
