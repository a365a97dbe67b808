package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/gin-gonic/gin"
)

type cashbookHandler struct {
	cashbookService portssvc.CashbookSvcFacade
}

func registerCashbookRoutes(rg *gin.RouterGroup, cashbookService portssvc.CashbookSvcFacade) {
	h := &cashbookHandler{cashbookService: cashbookService}

	cashbook := rg.Group("/cashbook")
	{
		cashbook.POST("", h.createEntry)
		cashbook.GET("", h.listEntries)
		cashbook.GET("/:id", h.getEntry)
		cashbook.PUT("/:id", h.updateEntry)
		cashbook.DELETE("/:id", h.deleteEntry)
	}
}

// createEntry godoc
// @Summary Record a payment or expense
// @Tags cashbook
// @Accept json
// @Produce json
// @Param entry body dto.CashbookEntryRequest true "Entry"
// @Success 201 {object} domain.CashbookEntry
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Party not found"
// @Security BearerAuth
// @Router /cashbook [post]
func (h *cashbookHandler) createEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CashbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "cashbook entry")
		return
	}
	entry, err := h.cashbookService.CreateEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create cashbook entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// listEntries godoc
// @Summary List cashbook entries
// @Tags cashbook
// @Produce json
// @Param type query string false "payment_in, payment_out or expense"
// @Param partyID query string false "Party filter"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Limit" default(20)
// @Param nextToken query string false "Cursor"
// @Success 200 {object} dto.ListCashbookResponse
// @Security BearerAuth
// @Router /cashbook [get]
func (h *cashbookHandler) listEntries(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.ListCashbookParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	resp, err := h.cashbookService.ListEntries(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list cashbook entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a cashbook entry
// @Tags cashbook
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} domain.CashbookEntry
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /cashbook/{id} [get]
func (h *cashbookHandler) getEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	entry, err := h.cashbookService.GetEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get cashbook entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// updateEntry godoc
// @Summary Replace a cashbook entry
// @Tags cashbook
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param entry body dto.CashbookEntryRequest true "Entry"
// @Success 200 {object} domain.CashbookEntry
// @Security BearerAuth
// @Router /cashbook/{id} [put]
func (h *cashbookHandler) updateEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CashbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "cashbook entry")
		return
	}
	entry, err := h.cashbookService.UpdateEntry(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update cashbook entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete a cashbook entry
// @Tags cashbook
// @Param id path string true "Entry ID"
// @Success 204
// @Security BearerAuth
// @Router /cashbook/{id} [delete]
func (h *cashbookHandler) deleteEntry(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.cashbookService.DeleteEntry(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete cashbook entry")
		return
	}
	c.Status(http.StatusNoContent)
}
