package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/lms-content-push/pkg/config"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
	"github.com/noah-isme/lms-content-push/pkg/response"
)

// ContextClientKey is the gin context key storing the authenticated caller
// identity.
const ContextClientKey = "currentClient"

// Auth protects routes by requiring a bearer credential: either the static
// API token or an HS256 service JWT signed with the configured secret.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}
		credential := parts[1]

		if cfg.APIToken != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(cfg.APIToken)) == 1 {
			c.Set(ContextClientKey, "api-token")
			c.Next()
			return
		}

		if cfg.JWTSecret != "" {
			token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err == nil && token.Valid {
				subject := "service"
				if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
					subject = sub
				}
				c.Set(ContextClientKey, subject)
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authentication token"))
		c.Abort()
	}
}

// ClientFromContext returns the authenticated caller identity, if any.
func ClientFromContext(c *gin.Context) string {
	if v, exists := c.Get(ContextClientKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
