package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles customers and suppliers.
type partyHandler struct {
	partyService portssvc.PartySvcFacade
}

func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade) {
	h := &partyHandler{partyService: partyService}

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:id", h.getParty)
		parties.PUT("/:id", h.updateParty)
		parties.DELETE("/:id", h.deleteParty)
	}
}

// createParty godoc
// @Summary Create a customer or supplier
// @Tags parties
// @Accept json
// @Produce json
// @Param party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} domain.Party
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Mobile already used by a party of this type"
// @Security BearerAuth
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "party request")
		return
	}
	party, err := h.partyService.CreateParty(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create party")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Party created", slog.String("party_id", party.PartyID))
	c.JSON(http.StatusCreated, party)
}

// listParties godoc
// @Summary List parties
// @Tags parties
// @Produce json
// @Param type query string false "customer or supplier"
// @Param search query string false "Name or mobile fragment"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListPartiesResponse
// @Security BearerAuth
// @Router /parties [get]
func (h *partyHandler) listParties(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	parties, err := h.partyService.ListParties(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list parties")
		return
	}
	c.JSON(http.StatusOK, dto.ListPartiesResponse{Parties: parties})
}

// getParty godoc
// @Summary Get a party
// @Tags parties
// @Produce json
// @Param id path string true "Party ID"
// @Success 200 {object} domain.Party
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /parties/{id} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	party, err := h.partyService.GetParty(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get party")
		return
	}
	c.JSON(http.StatusOK, party)
}

// updateParty godoc
// @Summary Update a party
// @Description Balances are never changed here.
// @Tags parties
// @Accept json
// @Produce json
// @Param id path string true "Party ID"
// @Param party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} domain.Party
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /parties/{id} [put]
func (h *partyHandler) updateParty(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "party update")
		return
	}
	party, err := h.partyService.UpdateParty(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update party")
		return
	}
	c.JSON(http.StatusOK, party)
}

// deleteParty godoc
// @Summary Delete a party
// @Tags parties
// @Param id path string true "Party ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /parties/{id} [delete]
func (h *partyHandler) deleteParty(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.partyService.DeleteParty(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete party")
		return
	}
	c.Status(http.StatusNoContent)
}
