package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"discounts/constants"
	"discounts/middleware"
	"discounts/services"
	"discounts/services/logger"
	"discounts/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("middleware-secret")

func identityRouter(seen *types.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.SessionMiddleware(), middleware.Identify(secret, logger.NewNopLogger()))
	router.GET("/whoami", func(c *gin.Context) {
		*seen = middleware.CurrentIdentity(c)
		c.String(http.StatusOK, middleware.SessionID(c))
	})
	return router
}

func TestIdentify(t *testing.T) {
	valid, err := services.GenerateToken(services.UserInfo{UserId: 7, Role: services.RoleCodePartner}, secret, time.Hour)
	require.NoError(t, err)
	foreign, err := services.GenerateToken(services.UserInfo{UserId: 7, Role: services.RoleCodeAdmin}, []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   types.Identity
	}{
		{name: "no token", want: types.Anonymous()},
		{name: "bearer", header: "Bearer " + valid, want: types.Identity{UserID: 7, Role: constants.RolePartner, Authenticated: true}},
		{name: "cookie", cookie: valid, want: types.Identity{UserID: 7, Role: constants.RolePartner, Authenticated: true}},
		{name: "wrong secret", header: "Bearer " + foreign, want: types.Anonymous()},
		{name: "garbage", header: "Bearer not.a.token", want: types.Anonymous()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen types.Identity
			router := identityRouter(&seen)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	var seen types.Identity
	router := identityRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.SessionHeader, "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
	assert.Equal(t, "abc", rec.Header().Get(middleware.SessionHeader))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(middleware.SessionHeader))
}
