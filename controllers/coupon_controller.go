package controllers

import (
	"strings"

	"discounts/middleware"
	"discounts/response"
	"discounts/services"
	"discounts/services/logger"
	"discounts/utils"

	"github.com/gin-gonic/gin"
)

type CouponController struct {
	coupons *services.CouponService
	clock   utils.Clock
	log     logger.Logger
}

func NewCouponController(coupons *services.CouponService, clock utils.Clock, log logger.Logger) CouponController {
	return CouponController{coupons: coupons, clock: clock, log: log}
}

// IssueCoupon godoc
// @Summary Issue a coupon on a deal for the caller
// @Tags coupons
// @Produce json
// @Param id path int true "Deal ID"
// @Success 201 {object} response.Response{data=dto.CouponResponse}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deal/{id}/coupons [post]
func (cc CouponController) IssueCoupon(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c)
		return
	}

	coupon, err := cc.coupons.IssueCoupon(c.Request.Context(), middleware.CurrentIdentity(c), id, cc.clock.Now())
	if err != nil {
		handleError(c, cc.log, err)
		return
	}
	response.Created(c, coupon)
}

// ListCoupons godoc
// @Summary Coupons held by the caller
// @Tags coupons
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.CouponResponse}
// @Failure 401 {object} response.Response
// @Router /coupons [get]
func (cc CouponController) ListCoupons(c *gin.Context) {
	coupons, err := cc.coupons.ListCoupons(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		handleError(c, cc.log, err)
		return
	}
	response.Success(c, coupons)
}

// RedeemCoupon godoc
// @Summary Redeem an active coupon
// @Tags coupons
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} response.Response{data=dto.CouponResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /coupons/{code}/redeem [post]
func (cc CouponController) RedeemCoupon(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		response.NotFound(c)
		return
	}

	coupon, err := cc.coupons.RedeemCoupon(c.Request.Context(), middleware.CurrentIdentity(c), code, cc.clock.Now())
	if err != nil {
		handleError(c, cc.log, err)
		return
	}
	response.Success(c, coupon)
}
