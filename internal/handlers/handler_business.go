package handlers

import (
	"net/http"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/gin-gonic/gin"
)

type businessHandler struct {
	businessService portssvc.BusinessSvcFacade
}

func registerBusinessRoutes(rg *gin.RouterGroup, businessService portssvc.BusinessSvcFacade) {
	h := &businessHandler{businessService: businessService}

	rg.GET("/business", h.getBusiness)
	rg.PUT("/business", middleware.RequireRoles(domain.RoleShopkeeper), h.updateBusiness)

	// Superadmin only
	admin := rg.Group("/businesses", middleware.RequireRoles())
	{
		admin.GET("", h.listBusinesses)
		admin.DELETE("/:id", h.deactivateBusiness)
	}
}

// getBusiness godoc
// @Summary Get the current business
// @Tags business
// @Produce json
// @Success 200 {object} domain.Business
// @Security BearerAuth
// @Router /business [get]
func (h *businessHandler) getBusiness(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	business, err := h.businessService.GetBusiness(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to get business")
		return
	}
	c.JSON(http.StatusOK, business)
}

// updateBusiness godoc
// @Summary Update the business profile
// @Tags business
// @Accept json
// @Produce json
// @Param business body dto.UpdateBusinessRequest true "Fields to update"
// @Success 200 {object} domain.Business
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /business [put]
func (h *businessHandler) updateBusiness(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "business update")
		return
	}
	business, err := h.businessService.UpdateBusiness(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to update business")
		return
	}
	c.JSON(http.StatusOK, business)
}

// listBusinesses godoc
// @Summary List all businesses
// @Tags business
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string][]domain.Business
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /businesses [get]
func (h *businessHandler) listBusinesses(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var params dto.ListBusinessesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	businesses, err := h.businessService.ListBusinesses(c.Request.Context(), actor, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list businesses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// deactivateBusiness godoc
// @Summary Deactivate a business
// @Tags business
// @Param id path string true "Business ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /businesses/{id} [delete]
func (h *businessHandler) deactivateBusiness(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if err := h.businessService.DeactivateBusiness(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to deactivate business")
		return
	}
	c.Status(http.StatusNoContent)
}
