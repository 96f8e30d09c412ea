package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mist-space/auth-core/internal/middleware"
	"github.com/mist-space/auth-core/internal/modules/auth"
	"github.com/mist-space/auth-core/internal/modules/system/health"
	"github.com/mist-space/auth-core/internal/modules/user"
	jwtpkg "github.com/mist-space/auth-core/internal/pkg/jwt"
	pkgredis "github.com/mist-space/auth-core/internal/pkg/redis"
	"github.com/mist-space/auth-core/internal/pkg/response"
	"github.com/mist-space/auth-core/internal/pkg/session"
)

func (a *App) registerRoutes(ctx context.Context, rc *pkgredis.Client, issuer *jwtpkg.Issuer) error {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	db := a.mongo.Database(a.cfg.MongoDB)
	userSvc := user.NewService(db)
	if err := userSvc.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	sessions := session.NewStore(rc)
	authSvc := auth.NewService(userSvc, sessions, issuer)
	authMW := middleware.Auth(issuer)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(rc.Raw()))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	health.RegisterRoutes(api, a.mongo, rc)
	auth.NewHandler(authSvc, a.cfg).RegisterRoutes(api, authMW)

	return nil
}
