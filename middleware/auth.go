package middleware

import (
	"strings"

	"discounts/services"
	"discounts/services/logger"
	"discounts/types"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identify resolves the caller from a Bearer token or the access_token cookie.
// Requests without a valid token continue as anonymous.
func Identify(secret []byte, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := types.Anonymous()

		if tokenString := bearerToken(c); tokenString != "" {
			parsed, err := services.ParseIdentity(tokenString, secret)
			if err != nil {
				log.Debug("Rejected access token: %v", err)
			} else {
				identity = parsed
			}
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the caller stored by Identify
func CurrentIdentity(c *gin.Context) types.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(types.Identity); ok {
			return identity
		}
	}
	return types.Anonymous()
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}
