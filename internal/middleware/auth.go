package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	jwtpkg "github.com/mist-space/auth-core/internal/pkg/jwt"
	"github.com/mist-space/auth-core/internal/pkg/response"
)

const (
	// ContextKeyUserID is the gin context key holding the authenticated user id.
	ContextKeyUserID = "user_id"

	accessTokenCookie = "access_token"
)

// Auth returns a middleware that requires a valid access token, taken from
// the access_token cookie or an Authorization bearer header.
func Auth(issuer *jwtpkg.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			response.Unauthorized(c, "Access token not found")
			return
		}
		claims, err := issuer.ParseAccess(token)
		if err != nil {
			response.Unauthorized(c, "Invalid access token")
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

func extractAccessToken(c *gin.Context) string {
	if raw, err := c.Cookie(accessTokenCookie); err == nil {
		if token := NormalizeToken(raw); token != "" {
			return token
		}
	}
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
