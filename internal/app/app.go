package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mist-space/auth-core/internal/config"
	"github.com/mist-space/auth-core/internal/database"
	"github.com/mist-space/auth-core/internal/middleware"
	jwtpkg "github.com/mist-space/auth-core/internal/pkg/jwt"
	pkgredis "github.com/mist-space/auth-core/internal/pkg/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	mongo  *mongo.Client
	logger *zap.Logger
}

// New initializes the application: config → stores → issuer → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mongoClient, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("mongodb: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURI)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	issuer, err := jwtpkg.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{cfg: cfg, router: router, mongo: mongoClient, logger: logger}
	if err := app.registerRoutes(ctx, rc, issuer); err != nil {
		return nil, err
	}

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-device-id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // cookies carry the tokens
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsCfg.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsCfg
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the backing-store connections.
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Disconnect(ctx); err != nil {
		a.logger.Warn("mongodb disconnect", zap.Error(err))
	}
}
