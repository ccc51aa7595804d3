package controllers_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"discounts/middleware"
	"discounts/models"
	"discounts/routes"
	"discounts/services"
	"discounts/services/logger"
	"discounts/services/storetest"
	"discounts/utils"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	secret = []byte("test-secret")
	nopLog = logger.NewNopLogger()
)

const (
	adminID   = 1
	partnerID = 2
	aliceID   = 3
	bobID     = 4
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	store    *storetest.Store
	router   *gin.Engine
	merchant models.Merchant
	food     models.Category
	deal     models.Deal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storetest.New()
	f := &fixture{store: store}
	f.merchant = store.AddMerchant("Luigi", "hello@luigi.example", partnerID)
	f.food = store.AddCategory("Food")
	f.deal = store.AddDeal(models.Deal{
		Title:         "Pizza Night",
		MerchantID:    f.merchant.ID,
		PriceOriginal: decimal.RequireFromString("100"),
		PriceDiscount: decimal.RequireFromString("60"),
		CreatedAt:     now.Add(-time.Hour),
		Description:   "Two pizzas for the price of one",
	}, f.food.ID)

	router := gin.New()
	router.Use(middleware.SessionMiddleware(), middleware.Identify(secret, nopLog))
	routes.SetupRoutes(router, routes.NewDependencies(store, nil, nil, utils.FixedClock{At: now}, nopLog))
	f.router = router
	return f
}

func bearer(t *testing.T, userID uint, role int) string {
	t.Helper()
	token, err := services.GenerateToken(services.UserInfo{UserId: userID, Role: role}, secret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *fixture) dealURL(suffix string) string {
	return fmt.Sprintf("/deal/%d%s", f.deal.ID, suffix)
}

type request struct {
	method  string
	path    string
	body    io.Reader
	headers map[string]string
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func (f *fixture) do(r request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, r.body)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Code int    `json:"code"`
	Mess string `json:"mess"`
	Data T      `json:"data"`
}

type statusPayload[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func withAuth(token string, extra ...string) map[string]string {
	headers := map[string]string{"Authorization": token}
	for i := 0; i+1 < len(extra); i += 2 {
		headers[extra[i]] = extra[i+1]
	}
	return headers
}

func uintString(id uint) string {
	return fmt.Sprintf("%d", id)
}
