package controllers_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"discounts/dto"
	"discounts/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeal(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodGet, path: f.dealURL("")})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[envelope[dto.DealDetail]](t, rec)
	assert.Equal(t, 1, body.Code)
	assert.Equal(t, "Pizza Night", body.Data.Title)
	assert.Equal(t, 40, body.Data.DiscountPercent)
	assert.Equal(t, "hello@luigi.example", body.Data.Contact)
	assert.True(t, body.Data.IsActive)
	assert.False(t, body.Data.IsFavorite)
	assert.Empty(t, body.Data.RecentCoupons)
}

func TestGetDeal_NotFound(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/deal/999", "/deal/abc", "/deal/0"} {
		rec := f.do(request{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func dealForm(merchantID, categoryID uint) map[string]interface{} {
	return map[string]interface{}{
		"title":         "Taco Tuesday",
		"merchantId":    merchantID,
		"priceOriginal": "50",
		"priceDiscount": "40",
		"categoryIds":   []uint{categoryID},
	}
}

func TestCreateDeal_NonStaffRedirected(t *testing.T) {
	f := newFixture(t)

	cases := map[string]map[string]string{
		"anonymous": {"Content-Type": "application/json"},
		"user":      withAuth(bearer(t, aliceID, services.RoleCodeUser), "Content-Type", "application/json"),
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(request{
				method:  http.MethodPost,
				path:    "/deal/create",
				body:    jsonBody(t, dealForm(f.merchant.ID, f.food.ID)),
				headers: headers,
			})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
		})
	}
}

func TestCreateDeal_Admin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method:  http.MethodPost,
		path:    "/deal/create",
		body:    jsonBody(t, dealForm(f.merchant.ID, f.food.ID)),
		headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin), "Content-Type", "application/json"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[envelope[dto.DealDetail]](t, rec)
	assert.Equal(t, "Taco Tuesday", body.Data.Title)
	assert.Equal(t, 20, body.Data.DiscountPercent)
	require.Len(t, body.Data.Categories, 1)
	assert.Equal(t, "Food", body.Data.Categories[0].Name)

	categories, _, _ := f.store.Counts(body.Data.ID)
	assert.Equal(t, 1, categories)
}

func TestCreateDeal_InvalidForm(t *testing.T) {
	f := newFixture(t)
	admin := withAuth(bearer(t, adminID, services.RoleCodeAdmin), "Content-Type", "application/json")

	form := dealForm(f.merchant.ID, f.food.ID)
	form["priceOriginal"] = "0"
	rec := f.do(request{method: http.MethodPost, path: "/deal/create", body: jsonBody(t, form), headers: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, decode[envelope[any]](t, rec).Code)

	form = dealForm(f.merchant.ID, 999)
	rec = f.do(request{method: http.MethodPost, path: "/deal/create", body: jsonBody(t, form), headers: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	form = dealForm(999, f.food.ID)
	rec = f.do(request{method: http.MethodPost, path: "/deal/create", body: jsonBody(t, form), headers: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(request{method: http.MethodPost, path: "/deal/create", body: strings.NewReader("{"), headers: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDeal_PartnerForeignMerchant(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddMerchant("Sushi Bar", "", 99)

	rec := f.do(request{
		method:  http.MethodPost,
		path:    "/deal/create",
		body:    jsonBody(t, dealForm(other.ID, f.food.ID)),
		headers: withAuth(bearer(t, partnerID, services.RoleCodePartner), "Content-Type", "application/json"),
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestEditDeal(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method:  http.MethodPost,
		path:    f.dealURL("/edit"),
		body:    jsonBody(t, dealForm(f.merchant.ID, f.food.ID)),
		headers: withAuth(bearer(t, aliceID, services.RoleCodeUser), "Content-Type", "application/json"),
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, f.dealURL(""), rec.Header().Get("Location"))

	rec = f.do(request{
		method:  http.MethodPost,
		path:    f.dealURL("/edit"),
		body:    jsonBody(t, dealForm(f.merchant.ID, f.food.ID)),
		headers: withAuth(bearer(t, partnerID, services.RoleCodePartner), "Content-Type", "application/json"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[envelope[dto.DealDetail]](t, rec)
	assert.Equal(t, f.deal.ID, body.Data.ID)
	assert.Equal(t, "Taco Tuesday", body.Data.Title)
}

func TestDeleteDeal(t *testing.T) {
	f := newFixture(t)
	f.store.ToggleFavorite(context.Background(), aliceID, f.deal.ID)

	rec := f.do(request{method: http.MethodPost, path: f.dealURL("/delete")})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    f.dealURL("/delete"),
		headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin)),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	categories, coupons, favorites := f.store.Counts(f.deal.ID)
	assert.Zero(t, categories)
	assert.Zero(t, coupons)
	assert.Zero(t, favorites)

	rec = f.do(request{method: http.MethodGet, path: f.dealURL("")})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchDeal_KeepsStoredValuesForInvalidFields(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method: http.MethodPatch,
		path:   f.dealURL(""),
		body: jsonBody(t, map[string]interface{}{
			"title":          "Pizza Party",
			"price_original": "abc",
			"expires_at":     "someday",
		}),
		headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin), "Content-Type", "application/json"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[statusPayload[dto.DealDetail]](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Contains(t, body.Message, "expires_at")
	assert.Contains(t, body.Message, "price_original")
	assert.Equal(t, "Pizza Party", body.Data.Title)
	assert.True(t, decimal.RequireFromString("100").Equal(body.Data.PriceOriginal))
	assert.Nil(t, body.Data.ExpiresAt)
}

func TestPatchDeal_Errors(t *testing.T) {
	f := newFixture(t)
	admin := withAuth(bearer(t, adminID, services.RoleCodeAdmin), "Content-Type", "application/json")

	rec := f.do(request{
		method:  http.MethodPatch,
		path:    f.dealURL(""),
		body:    jsonBody(t, map[string]string{"title": "Mine now"}),
		headers: withAuth(bearer(t, aliceID, services.RoleCodeUser), "Content-Type", "application/json"),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode[statusPayload[any]](t, rec).Status)

	rec = f.do(request{method: http.MethodPatch, path: f.dealURL(""), body: strings.NewReader("not json"), headers: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode[statusPayload[any]](t, rec).Status)

	rec = f.do(request{method: http.MethodPatch, path: "/deal/999", body: jsonBody(t, map[string]string{"title": "x"}), headers: admin})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	got, err := f.store.GetDeal(context.Background(), f.deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pizza Night", got.Title)
}

func TestUpdateAll_FormFields(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method: http.MethodPost,
		path:   f.dealURL("/update_all"),
		body:   strings.NewReader("title=Pizza+Week&price_discount=50&unknown=1"),
		headers: withAuth(bearer(t, partnerID, services.RoleCodePartner),
			"Content-Type", "application/x-www-form-urlencoded"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[statusPayload[dto.DealDetail]](t, rec)
	assert.Equal(t, "Pizza Week", body.Data.Title)
	assert.True(t, decimal.RequireFromString("50").Equal(body.Data.PriceDiscount))
	assert.Equal(t, 50, body.Data.DiscountPercent)
	assert.Empty(t, body.Message)
}

func TestUpdateDescription_OnlyTouchesDescription(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{
		method:  http.MethodPost,
		path:    f.dealURL("/update_description"),
		body:    jsonBody(t, map[string]string{"description": "Now with dessert", "title": "Ignored"}),
		headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin), "Content-Type", "application/json"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[statusPayload[dto.DealDetail]](t, rec)
	assert.Equal(t, "Now with dessert", body.Data.Description)
	assert.Equal(t, "Pizza Night", body.Data.Title)
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "pizza.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := f.do(request{
		method:  http.MethodPost,
		path:    f.dealURL("/image"),
		body:    bytes.NewReader(buf.Bytes()),
		headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin), "Content-Type", writer.FormDataContentType()),
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = f.do(request{
		method:  http.MethodPost,
		path:    f.dealURL("/image"),
		headers: withAuth(bearer(t, adminID, services.RoleCodeAdmin)),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(request{method: http.MethodPost, path: f.dealURL("/image")})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, fmt.Sprintf("/deal/%d", f.deal.ID), rec.Header().Get("Location"))
}
