package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler serves one invoice series, sales or purchases.
type invoiceHandler struct {
	kind           domain.DocumentKind
	invoiceService portssvc.InvoiceSvcFacade
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, printService portssvc.PrintSvcFacade) {
	for path, kind := range map[string]domain.DocumentKind{
		"/sales":     domain.KindSale,
		"/purchases": domain.KindPurchase,
	} {
		h := &invoiceHandler{kind: kind, invoiceService: invoiceService}
		p := &printHandler{kind: kind, printService: printService}

		g := rg.Group(path)
		g.POST("", h.createInvoice)
		g.GET("", h.listInvoices)
		g.GET("/next-number", h.nextNumber)
		g.GET("/:id", h.getInvoice)
		g.PUT("/:id", h.updateInvoice)
		g.DELETE("/:id", h.deleteInvoice)
		g.GET("/:id/pdf", p.downloadPDF)
		g.POST("/:id/print-token", p.issuePrintToken)
	}
}

// createInvoice godoc
// @Summary Create a sale or purchase
// @Description Claims the next number (or reserves invoiceNo), applies stock and balance effects in one transaction.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.InvoiceRequest true "Invoice"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice number already used"
// @Security BearerAuth
// @Router /sales [post]
// @Router /purchases [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "invoice request")
		return
	}
	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), actor, h.kind, req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice created",
		slog.String("kind", string(h.kind)),
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.InvoiceNumber),
	)
	c.JSON(http.StatusCreated, inv)
}

// listInvoices godoc
// @Summary List sales or purchases
// @Description Newest first by invoice date. Pass nextToken from the previous page to continue.
// @Tags invoices
// @Produce json
// @Param partyID query string false "Party filter"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param includeDeleted query bool false "Include deleted invoices"
// @Param limit query int false "Limit" default(20)
// @Param nextToken query string false "Cursor"
// @Success 200 {object} dto.ListInvoicesResponse
// @Security BearerAuth
// @Router /sales [get]
// @Router /purchases [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), actor, h.kind, params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// nextNumber godoc
// @Summary Preview the next invoice number
// @Description Advisory only; the number is claimed when the invoice is created.
// @Tags invoices
// @Produce json
// @Success 200 {object} dto.NextNumberResponse
// @Security BearerAuth
// @Router /sales/next-number [get]
// @Router /purchases/next-number [get]
func (h *invoiceHandler) nextNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	resp, err := h.invoiceService.PreviewNextNumber(c.Request.Context(), actor, h.kind)
	if err != nil {
		respondError(c, err, "Failed to preview next number")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get a sale or purchase
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [get]
// @Router /purchases/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), actor, h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// updateInvoice godoc
// @Summary Replace a sale or purchase
// @Description Reverses the stored effects and applies the new ones. The number is kept.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.InvoiceRequest true "Invoice"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [put]
// @Router /purchases/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "invoice request")
		return
	}
	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), actor, h.kind, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// deleteInvoice godoc
// @Summary Delete a sale or purchase
// @Description Reverses the stored effects. Invoices with live returns cannot be deleted.
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Invoice has returns"
// @Security BearerAuth
// @Router /sales/{id} [delete]
// @Router /purchases/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), actor, h.kind, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}
