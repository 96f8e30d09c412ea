package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mist-space/auth-core/internal/config"
	"github.com/mist-space/auth-core/internal/middleware"
	"github.com/mist-space/auth-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
	cfg *config.AppConfig
}

func NewHandler(svc *Service, cfg *config.AppConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/signup", h.signup)
	a.POST("/login", h.login)
	a.GET("/logout", h.logout)
	a.GET("/refresh-token", h.refreshToken)
	a.GET("/me", authMW, h.me)
}

func (h *Handler) signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pub, pair, err := h.svc.Signup(c.Request.Context(), &dto, c.GetHeader(deviceIDHeader))
	if err != nil {
		if errors.Is(err, errUserExists) {
			response.BadRequest(c, "User already exists")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	setAuthCookies(c, h.cfg, pair)
	response.Created(c, gin.H{
		"message": "User created successfully",
		"user":    pub,
	})
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pub, pair, err := h.svc.Login(c.Request.Context(), &dto, c.GetHeader(deviceIDHeader))
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	setAuthCookies(c, h.cfg, pair)
	response.OK(c, gin.H{
		"message": "Login successful",
		"user":    pub,
	})
}

func (h *Handler) logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	err := h.svc.Logout(c.Request.Context(), refreshToken)

	// Cookies are cleared even when session invalidation failed.
	clearAuthCookies(c, h.cfg)

	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"message": "Logout successful"})
}

func (h *Handler) refreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	accessToken, err := h.svc.Refresh(c.Request.Context(), refreshToken, c.GetHeader(deviceIDHeader))
	if err != nil {
		switch {
		case errors.Is(err, errMissingToken):
			response.Unauthorized(c, "Refresh token not found")
		case errors.Is(err, errInvalidToken):
			response.Unauthorized(c, "Invalid refresh token")
		default:
			_ = c.Error(err)
			response.InternalError(c)
		}
		return
	}

	setAccessCookie(c, h.cfg, accessToken)
	response.OK(c, gin.H{"message": "Access token refreshed"})
}

func (h *Handler) me(c *gin.Context) {
	pub, found, err := h.svc.CurrentUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	if !found {
		response.Unauthorized(c, "Invalid access token")
		return
	}
	response.OK(c, gin.H{"user": pub})
}
