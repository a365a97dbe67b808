package handlers

import (
	"net/http"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/gin-gonic/gin"
)

type returnHandler struct {
	kind          domain.DocumentKind
	returnService portssvc.ReturnSvcFacade
}

func registerReturnRoutes(rg *gin.RouterGroup, returnService portssvc.ReturnSvcFacade, invoiceService portssvc.InvoiceSvcFacade, printService portssvc.PrintSvcFacade) {
	for path, kind := range map[string]domain.DocumentKind{
		"/sale-returns":     domain.KindSaleReturn,
		"/purchase-returns": domain.KindPurchaseReturn,
	} {
		h := &returnHandler{kind: kind, returnService: returnService}
		n := &invoiceHandler{kind: kind, invoiceService: invoiceService}
		p := &printHandler{kind: kind, printService: printService}

		g := rg.Group(path)
		g.POST("", h.createReturn)
		g.GET("", h.listReturns)
		g.GET("/next-number", n.nextNumber)
		g.GET("/:id", h.getReturn)
		g.PUT("/:id", h.updateReturn)
		g.DELETE("/:id", h.deleteReturn)
		g.GET("/:id/pdf", p.downloadPDF)
		g.POST("/:id/print-token", p.issuePrintToken)
	}
}

// createReturn godoc
// @Summary Create a sale or purchase return
// @Description Good items move stock back; the party balance drops by the grand total.
// @Tags returns
// @Accept json
// @Produce json
// @Param return body dto.ReturnRequest true "Return"
// @Success 201 {object} domain.Return
// @Failure 400 {object} dto.ErrorResponse "Quantity exceeds what remains returnable"
// @Failure 404 {object} dto.ErrorResponse "Original invoice not found"
// @Security BearerAuth
// @Router /sale-returns [post]
// @Router /purchase-returns [post]
func (h *returnHandler) createReturn(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "return request")
		return
	}
	ret, err := h.returnService.CreateReturn(c.Request.Context(), actor, h.kind, req)
	if err != nil {
		respondError(c, err, "Failed to create return")
		return
	}
	c.JSON(http.StatusCreated, ret)
}

// listReturns godoc
// @Summary List returns
// @Tags returns
// @Produce json
// @Param originalInvoiceID query string false "Original invoice filter"
// @Param partyID query string false "Party filter"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Limit" default(20)
// @Param nextToken query string false "Cursor"
// @Success 200 {object} dto.ListReturnsResponse
// @Security BearerAuth
// @Router /sale-returns [get]
// @Router /purchase-returns [get]
func (h *returnHandler) listReturns(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.ListReturnsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	resp, err := h.returnService.ListReturns(c.Request.Context(), actor, h.kind, params)
	if err != nil {
		respondError(c, err, "Failed to list returns")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getReturn godoc
// @Summary Get a return
// @Tags returns
// @Produce json
// @Param id path string true "Return ID"
// @Success 200 {object} domain.Return
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sale-returns/{id} [get]
// @Router /purchase-returns/{id} [get]
func (h *returnHandler) getReturn(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	ret, err := h.returnService.GetReturn(c.Request.Context(), actor, h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get return")
		return
	}
	c.JSON(http.StatusOK, ret)
}

// updateReturn godoc
// @Summary Replace a return
// @Tags returns
// @Accept json
// @Produce json
// @Param id path string true "Return ID"
// @Param return body dto.ReturnRequest true "Return"
// @Success 200 {object} domain.Return
// @Security BearerAuth
// @Router /sale-returns/{id} [put]
// @Router /purchase-returns/{id} [put]
func (h *returnHandler) updateReturn(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "return request")
		return
	}
	ret, err := h.returnService.UpdateReturn(c.Request.Context(), actor, h.kind, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update return")
		return
	}
	c.JSON(http.StatusOK, ret)
}

// deleteReturn godoc
// @Summary Delete a return
// @Tags returns
// @Param id path string true "Return ID"
// @Success 204
// @Security BearerAuth
// @Router /sale-returns/{id} [delete]
// @Router /purchase-returns/{id} [delete]
func (h *returnHandler) deleteReturn(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.returnService.DeleteReturn(c.Request.Context(), actor, h.kind, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete return")
		return
	}
	c.Status(http.StatusNoContent)
}
