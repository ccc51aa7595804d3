package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"discounts/constants"
	"discounts/dto"
	"discounts/models"
	"discounts/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponFlow(t *testing.T) {
	f := newFixture(t)
	alice := withAuth(bearer(t, aliceID, services.RoleCodeUser))
	bob := withAuth(bearer(t, bobID, services.RoleCodeUser))

	rec := f.do(request{method: http.MethodPost, path: f.dealURL("/coupons")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(request{method: http.MethodPost, path: f.dealURL("/coupons"), headers: alice})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	coupon := decode[envelope[dto.CouponResponse]](t, rec).Data
	assert.Len(t, coupon.Code, 12)
	assert.Equal(t, constants.CouponStatusActive, coupon.Status)
	assert.Equal(t, f.deal.ID, coupon.DealID)

	rec = f.do(request{method: http.MethodGet, path: "/coupons", headers: alice})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[envelope[[]dto.CouponResponse]](t, rec).Data, 1)

	redeemPath := "/coupons/" + coupon.Code + "/redeem"
	rec = f.do(request{method: http.MethodPost, path: redeemPath, headers: bob})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(request{method: http.MethodPost, path: redeemPath, headers: alice})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	redeemed := decode[envelope[dto.CouponResponse]](t, rec).Data
	assert.Equal(t, constants.CouponStatusRedeemed, redeemed.Status)
	require.NotNil(t, redeemed.RedeemedAt)
	assert.True(t, now.Equal(*redeemed.RedeemedAt))

	rec = f.do(request{method: http.MethodPost, path: redeemPath, headers: alice})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRedeemCoupon_UnknownCode(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method:  http.MethodPost,
		path:    "/coupons/NOPE/redeem",
		headers: withAuth(bearer(t, aliceID, services.RoleCodeUser)),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssueCoupon_ExpiredDeal(t *testing.T) {
	f := newFixture(t)
	ended := now.Add(-48 * time.Hour)
	expired := f.store.AddDeal(models.Deal{
		Title:         "Last Week",
		MerchantID:    f.merchant.ID,
		PriceOriginal: decimal.RequireFromString("20"),
		PriceDiscount: decimal.RequireFromString("10"),
		ExpiresAt:     &ended,
	})

	rec := f.do(request{
		method:  http.MethodPost,
		path:    "/deal/" + uintString(expired.ID) + "/coupons",
		headers: withAuth(bearer(t, aliceID, services.RoleCodeUser)),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    "/deal/999/coupons",
		headers: withAuth(bearer(t, aliceID, services.RoleCodeUser)),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDeal_StaffSeesRecentCoupons(t *testing.T) {
	f := newFixture(t)
	f.do(request{method: http.MethodPost, path: f.dealURL("/coupons"), headers: withAuth(bearer(t, aliceID, services.RoleCodeUser))})

	rec := f.do(request{method: http.MethodGet, path: f.dealURL(""), headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin))})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[envelope[dto.DealDetail]](t, rec).Data.RecentCoupons, 1)

	rec = f.do(request{method: http.MethodGet, path: f.dealURL(""), headers: withAuth(bearer(t, aliceID, services.RoleCodeUser))})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[envelope[dto.DealDetail]](t, rec).Data.RecentCoupons)
}
