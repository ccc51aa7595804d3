package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"discounts/errors"
	"discounts/middleware"
	"discounts/response"
	"discounts/services/logger"

	"github.com/gin-gonic/gin"
)

const loginPath = "/login"

// wantsJSON reports whether the client asked for a machine-readable reply
func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.ContentType(), "application/json")
}

func dealPath(id uint) string {
	return "/deal/" + strconv.FormatUint(uint64(id), 10)
}

func loginRedirect(next string) string {
	return loginPath + "?next=" + next
}

func isAuthError(err error) bool {
	return errors.Is(err, errors.ErrUnauthenticated) || errors.Is(err, errors.ErrForbidden)
}

// handleError maps service errors to the JSON envelope
func handleError(c *gin.Context, log logger.Logger, err error) {
	switch {
	case errors.Is(err, errors.ErrUnauthenticated):
		response.Unauthorized(c)
		return
	case errors.Is(err, errors.ErrForbidden):
		response.Forbidden(c)
		return
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		switch appErr.Code {
		case errors.ErrCodeCouponState, errors.ErrCodeDBDuplicate:
			response.Conflict(c, appErr.Message)
		case errors.ErrCodeUpload:
			c.JSON(http.StatusBadGateway, response.Response{Code: 0, Mess: appErr.Message})
		default:
			response.ValidationError(c, appErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, errors.ErrDealNotFound),
		errors.Is(err, errors.ErrCategoryNotFound),
		errors.Is(err, errors.ErrCouponNotFound):
		response.NotFound(c)
	case errors.Is(err, errors.ErrMerchantNotFound):
		response.ValidationError(c, "Unknown merchant")
	case errors.Is(err, errors.ErrDealExpired):
		response.Conflict(c, err.Error())
	default:
		log.Error("%s %s request_id=%s: %v", c.Request.Method, c.Request.URL.Path, middleware.RequestID(c), err)
		response.ServerError(c)
	}
}

// statusError maps service errors to the {status, message} payload
func statusError(c *gin.Context, log logger.Logger, err error) {
	switch {
	case isAuthError(err):
		response.StatusError(c, http.StatusBadRequest, "Insufficient privileges")
	case errors.Is(err, errors.ErrDealNotFound):
		response.StatusError(c, http.StatusNotFound, "Deal not found")
	default:
		if appErr := errors.GetAppError(err); appErr != nil {
			response.StatusError(c, http.StatusBadRequest, appErr.Message)
			return
		}
		log.Error("%s %s request_id=%s: %v", c.Request.Method, c.Request.URL.Path, middleware.RequestID(c), err)
		response.StatusError(c, http.StatusInternalServerError, "Internal server error")
	}
}
