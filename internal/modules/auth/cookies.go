package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mist-space/auth-core/internal/config"
	jwtpkg "github.com/mist-space/auth-core/internal/pkg/jwt"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// Cookie max-ages mirror the token lifetimes.
var (
	accessCookieMaxAge  = int(jwtpkg.AccessTTL.Seconds())
	refreshCookieMaxAge = int(jwtpkg.RefreshTTL.Seconds())
)

func setAuthCookies(c *gin.Context, cfg *config.AppConfig, pair jwtpkg.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken, accessCookieMaxAge, "/", "", cfg.IsProd(), true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, refreshCookieMaxAge, "/", "", cfg.IsProd(), true)
}

func setAccessCookie(c *gin.Context, cfg *config.AppConfig, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, token, accessCookieMaxAge, "/", "", cfg.IsProd(), true)
}

func clearAuthCookies(c *gin.Context, cfg *config.AppConfig) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", cfg.IsProd(), true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", cfg.IsProd(), true)
}
