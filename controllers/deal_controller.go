package controllers

import (
	"net/http"
	"strings"

	"discounts/dto"
	"discounts/errors"
	"discounts/middleware"
	"discounts/response"
	"discounts/services"
	"discounts/services/logger"
	"discounts/utils"

	"github.com/gin-gonic/gin"
)

const maxUploadMemory = 10 << 20

type DealController struct {
	deals *services.DealService
	clock utils.Clock
	log   logger.Logger
}

func NewDealController(deals *services.DealService, clock utils.Clock, log logger.Logger) DealController {
	return DealController{deals: deals, clock: clock, log: log}
}

// GetDeal godoc
// @Summary Deal detail
// @Tags deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} response.Response{data=dto.DealDetail}
// @Failure 404 {object} response.Response
// @Router /deal/{id} [get]
func (d DealController) GetDeal(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c)
		return
	}

	detail, err := d.deals.GetDealDetail(c.Request.Context(), middleware.CurrentIdentity(c), id, d.clock.Now())
	if err != nil {
		handleError(c, d.log, err)
		return
	}
	response.Success(c, detail)
}

// CreateDeal godoc
// @Summary Create a deal (partner or admin)
// @Tags deals
// @Accept json
// @Produce json
// @Param deal body dto.DealForm true "Deal"
// @Success 201 {object} response.Response{data=dto.DealDetail}
// @Failure 400 {object} response.Response
// @Failure 303 "Caller may not change the catalog"
// @Router /deal/create [post]
func (d DealController) CreateDeal(c *gin.Context) {
	caller := middleware.CurrentIdentity(c)
	if !caller.IsStaff() {
		response.RedirectTo(c, "/")
		return
	}

	var form dto.DealForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	deal, err := d.deals.CreateDeal(c.Request.Context(), caller, form)
	if err != nil {
		if isAuthError(err) {
			response.RedirectTo(c, "/")
			return
		}
		handleError(c, d.log, err)
		return
	}
	response.Created(c, services.ToDealDetail(deal, d.clock.Now()))
}

// EditDeal godoc
// @Summary Replace a deal with a validated form (partner or admin)
// @Tags deals
// @Accept json
// @Produce json
// @Param id path int true "Deal ID"
// @Param deal body dto.DealForm true "Deal"
// @Success 200 {object} response.Response{data=dto.DealDetail}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /deal/{id}/edit [post]
func (d DealController) EditDeal(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c)
		return
	}
	caller := middleware.CurrentIdentity(c)
	if !caller.IsStaff() {
		response.RedirectTo(c, dealPath(id))
		return
	}

	var form dto.DealForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	deal, err := d.deals.EditDeal(c.Request.Context(), caller, id, form)
	if err != nil {
		if isAuthError(err) {
			response.RedirectTo(c, dealPath(id))
			return
		}
		handleError(c, d.log, err)
		return
	}
	response.Success(c, services.ToDealDetail(deal, d.clock.Now()))
}

// DeleteDeal godoc
// @Summary Delete a deal with its coupons, favorites and category links
// @Tags deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /deal/{id}/delete [post]
func (d DealController) DeleteDeal(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c)
		return
	}
	caller := middleware.CurrentIdentity(c)
	if !caller.IsStaff() {
		response.RedirectTo(c, dealPath(id))
		return
	}

	if err := d.deals.DeleteDeal(c.Request.Context(), caller, id); err != nil {
		if isAuthError(err) {
			response.RedirectTo(c, dealPath(id))
			return
		}
		handleError(c, d.log, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// readPatchPayload accepts a JSON object or form fields
func readPatchPayload(c *gin.Context) (map[string]interface{}, error) {
	raw := make(map[string]interface{})
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}

func (d DealController) applyPatch(c *gin.Context, raw map[string]interface{}) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.StatusError(c, http.StatusNotFound, "Deal not found")
		return
	}

	patch := services.ParseDealPatch(raw)
	deal, err := d.deals.PatchDeal(c.Request.Context(), middleware.CurrentIdentity(c), id, patch)
	if err != nil {
		statusError(c, d.log, err)
		return
	}

	message := ""
	if len(patch.Ignored) > 0 {
		message = "Kept previous values for: " + strings.Join(patch.Ignored, ", ")
	}
	response.StatusOK(c, message, services.ToDealDetail(deal, d.clock.Now()))
}

// PatchDeal godoc
// @Summary Partial update, invalid values keep the stored ones
// @Tags deals
// @Accept json
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} response.StatusPayload
// @Failure 400 {object} response.StatusPayload
// @Failure 404 {object} response.StatusPayload
// @Router /deal/{id} [patch]
func (d DealController) PatchDeal(c *gin.Context) {
	raw, err := readPatchPayload(c)
	if err != nil {
		response.StatusError(c, http.StatusBadRequest, "Malformed payload")
		return
	}
	d.applyPatch(c, raw)
}

// UpdateDescription godoc
// @Summary Update only the description of a deal
// @Tags deals
// @Accept json
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} response.StatusPayload
// @Router /deal/{id}/update_description [post]
func (d DealController) UpdateDescription(c *gin.Context) {
	raw, err := readPatchPayload(c)
	if err != nil {
		response.StatusError(c, http.StatusBadRequest, "Malformed payload")
		return
	}

	only := make(map[string]interface{})
	if value, ok := raw["description"]; ok {
		only["description"] = value
	}
	d.applyPatch(c, only)
}

// UploadImage godoc
// @Summary Upload the deal image
// @Tags deals
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Deal ID"
// @Param file formData file true "Image"
// @Success 200 {object} response.Response{data=dto.DealDetail}
// @Failure 400 {object} response.Response
// @Router /deal/{id}/image [post]
func (d DealController) UploadImage(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c)
		return
	}
	caller := middleware.CurrentIdentity(c)
	if !caller.IsStaff() {
		response.RedirectTo(c, dealPath(id))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	deal, err := d.deals.SetDealImage(c.Request.Context(), caller, id, file, header.Filename)
	if err != nil {
		if isAuthError(err) {
			response.RedirectTo(c, dealPath(id))
			return
		}
		handleError(c, d.log, err)
		return
	}
	response.Success(c, services.ToDealDetail(deal, d.clock.Now()))
}
