package middleware

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/jobtrack/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type AuthConfig struct {
	Secret   []byte
	Issuer   string // optional
	Audience string // optional
}

// AuthConfigFromEnv reads JWT_SECRET, JWT_ISSUER and JWT_AUDIENCE.
func AuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		Secret:   []byte(os.Getenv("JWT_SECRET")),
		Issuer:   os.Getenv("JWT_ISSUER"),
		Audience: os.Getenv("JWT_AUDIENCE"),
	}
}

func abort(c *gin.Context, status int, code utils.Code, msg string) {
	c.AbortWithStatusJSON(status, apiError{Code: code, Message: msg})
}

// JWTAuth verifies an HS256 bearer token and exposes its subject as user_id.
func JWTAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(cfg.Secret) == 0 {
			abort(c, http.StatusInternalServerError, utils.CodeInternal, "JWT_SECRET is not set")
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return cfg.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token issuer")
			return
		}

		if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token audience")
			return
		}

		if claims.Subject == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing subject")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
