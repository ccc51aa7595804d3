package controllers

import (
	"discounts/response"
	"discounts/services"
	"discounts/services/logger"
	"discounts/utils"

	"github.com/gin-gonic/gin"
)

type HomeController struct {
	listing *services.ListingService
	clock   utils.Clock
	log     logger.Logger
}

func NewHomeController(listing *services.ListingService, clock utils.Clock, log logger.Logger) HomeController {
	return HomeController{listing: listing, clock: clock, log: log}
}

// GetHome godoc
// @Summary Home view
// @Tags home
// @Produce json
// @Success 200 {object} response.Response{data=dto.HomeView}
// @Router / [get]
func (h HomeController) GetHome(c *gin.Context) {
	view, err := h.listing.BuildHomeView(c.Request.Context(), h.clock.Now())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, view)
}

// GetCategory godoc
// @Summary Category page, deals discounted by at least 5%
// @Tags home
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Response{data=dto.CategoryPage}
// @Failure 404 {object} response.Response
// @Router /category/{id} [get]
func (h HomeController) GetCategory(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c)
		return
	}

	page, err := h.listing.CategoryDeals(c.Request.Context(), id, h.clock.Now())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, page)
}
