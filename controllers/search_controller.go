package controllers

import (
	"discounts/dto"
	"discounts/middleware"
	"discounts/response"
	"discounts/services"
	"discounts/services/logger"
	"discounts/utils"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	search *services.SearchService
	clock  utils.Clock
	log    logger.Logger
}

func NewSearchController(search *services.SearchService, clock utils.Clock, log logger.Logger) SearchController {
	return SearchController{search: search, clock: clock, log: log}
}

// Search godoc
// @Summary Search deals, merchants and categories
// @Tags search
// @Produce json
// @Param q query string false "Query, at least 2 characters"
// @Param sort query string false "relevance, discount or new"
// @Param category query []int false "Category filter" collectionFormat(multi)
// @Param page query int false "Page, 10 deals per page"
// @Success 200 {object} response.Response{data=dto.SearchResult}
// @Router /search [get]
func (s SearchController) Search(c *gin.Context) {
	req := dto.SearchRequest{
		Query:       c.Query("q"),
		Sort:        c.Query("sort"),
		CategoryIDs: utils.ParseIDs(c.QueryArray("category")),
		Page:        utils.ParsePage(c.Query("page")),
		SessionKey:  middleware.SessionID(c),
	}

	result, err := s.search.Search(c.Request.Context(), req, s.clock.Now())
	if err != nil {
		handleError(c, s.log, err)
		return
	}
	response.Success(c, result)
}
