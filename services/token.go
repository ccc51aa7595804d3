package services

import (
	"fmt"
	"time"

	"discounts/constants"
	"discounts/errors"
	"discounts/types"

	"github.com/dgrijalva/jwt-go"
)

// Role codes carried in access tokens
const (
	RoleCodeUser    = 0
	RoleCodeAdmin   = 1
	RoleCodePartner = 2
)

type UserInfo struct {
	UserId uint `json:"userid"`
	Role   int  `json:"role"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

// RoleName maps a token role code to a role name
func RoleName(code int) string {
	switch code {
	case RoleCodeAdmin:
		return constants.RoleAdmin
	case RoleCodePartner:
		return constants.RolePartner
	default:
		return constants.RoleUser
	}
}

// GenerateToken signs an HS256 access token for userInfo
func GenerateToken(userInfo UserInfo, secret []byte, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserInfo: userInfo,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseIdentity verifies an access token and returns the caller it names
func ParseIdentity(tokenString string, secret []byte) (types.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return types.Anonymous(), errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid token", err)
	}
	if !token.Valid || claims.UserInfo.UserId == 0 {
		return types.Anonymous(), errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid token", nil)
	}

	return types.Identity{
		UserID:        claims.UserInfo.UserId,
		Role:          RoleName(claims.UserInfo.Role),
		Authenticated: true,
	}, nil
}
