package handlers

import (
	"net/http"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/gin-gonic/gin"
)

// printHandler renders the documents of one kind.
type printHandler struct {
	kind         domain.DocumentKind
	printService portssvc.PrintSvcFacade
}

// registerPrintRoutes registers the unauthenticated token redemption route.
func registerPrintRoutes(r *gin.Engine, printService portssvc.PrintSvcFacade) {
	h := &printHandler{printService: printService}
	r.GET("/api/v1/print/:token", h.printByToken)
}

func sendPDF(c *gin.Context, doc *portssvc.PDFDocument, disposition string) {
	c.Header("Content-Disposition", disposition+`; filename="`+doc.FileName+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// downloadPDF godoc
// @Summary Download a document as PDF
// @Tags print
// @Produce application/pdf
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sales/{id}/pdf [get]
// @Router /purchases/{id}/pdf [get]
// @Router /sale-returns/{id}/pdf [get]
// @Router /purchase-returns/{id}/pdf [get]
func (h *printHandler) downloadPDF(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	doc, err := h.printService.RenderDocument(c.Request.Context(), actor, h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to render document")
		return
	}
	sendPDF(c, doc, "attachment")
}

// issuePrintToken godoc
// @Summary Create a print link
// @Description Returns a single-use, short-lived link that streams the PDF without a session.
// @Tags print
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param print body dto.PrintTokenRequest false "Copies"
// @Success 201 {object} dto.PrintTokenResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /sales/{id}/print-token [post]
// @Router /purchases/{id}/print-token [post]
func (h *printHandler) issuePrintToken(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.PrintTokenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "print request")
			return
		}
	}
	resp, err := h.printService.IssuePrintToken(c.Request.Context(), actor, h.kind, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to issue print token")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// printByToken godoc
// @Summary Redeem a print link
// @Description Streams the PDF of a print token once. Unknown or expired tokens are 404.
// @Tags print
// @Produce application/pdf
// @Param token path string true "Print token"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /print/{token} [get]
func (h *printHandler) printByToken(c *gin.Context) {
	doc, err := h.printService.RenderByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err, "Failed to redeem print token")
		return
	}
	sendPDF(c, doc, "inline")
}
