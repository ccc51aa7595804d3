package controllers

import (
	"net/http"

	"discounts/errors"
	"discounts/middleware"
	"discounts/response"
	"discounts/services"
	"discounts/services/logger"
	"discounts/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	favorites *services.FavoriteService
	log       logger.Logger
}

func NewFavoriteController(favorites *services.FavoriteService, log logger.Logger) FavoriteController {
	return FavoriteController{favorites: favorites, log: log}
}

// ToggleFavorite godoc
// @Summary Add or remove a deal from the caller's favorites
// @Description Machine-readable requests get JSON, others are sent back to the referring page
// @Tags favorites
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} response.StatusPayload{data=dto.ToggleResult}
// @Failure 401 {object} response.StatusPayload
// @Failure 404 {object} response.StatusPayload
// @Router /deal/{id}/favorite [post]
func (f FavoriteController) ToggleFavorite(c *gin.Context) {
	asJSON := wantsJSON(c)
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.StatusError(c, http.StatusNotFound, "Deal not found")
		return
	}

	result, err := f.favorites.ToggleFavorite(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrUnauthenticated):
			if asJSON {
				response.StatusError(c, http.StatusUnauthorized, "Authentication required")
				return
			}
			response.RedirectTo(c, loginRedirect(dealPath(id)))
		case errors.Is(err, errors.ErrDealNotFound):
			response.StatusError(c, http.StatusNotFound, "Deal not found")
		default:
			f.log.Error("toggle favorite on deal %d: %v", id, err)
			response.StatusError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if asJSON {
		response.StatusOK(c, result.Action, result)
		return
	}
	back := c.GetHeader("Referer")
	if back == "" {
		back = dealPath(id)
	}
	response.RedirectTo(c, back)
}

// ListFavorites godoc
// @Summary Favorite deals of the caller, most recent first
// @Tags favorites
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.DealCard}
// @Failure 401 {object} response.Response
// @Router /favorites [get]
func (f FavoriteController) ListFavorites(c *gin.Context) {
	cards, err := f.favorites.ListFavorites(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		if errors.Is(err, errors.ErrUnauthenticated) && !wantsJSON(c) {
			response.RedirectTo(c, loginRedirect("/favorites"))
			return
		}
		handleError(c, f.log, err)
		return
	}
	response.Success(c, cards)
}
