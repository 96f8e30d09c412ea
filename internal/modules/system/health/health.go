package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	pkgredis "github.com/mist-space/auth-core/internal/pkg/redis"
)

const probeTimeout = 2 * time.Second

// RegisterRoutes exposes a liveness probe over both backing stores.
func RegisterRoutes(rg *gin.RouterGroup, client *mongo.Client, rc *pkgredis.Client) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		mongoOK := client.Ping(ctx, readpref.Primary()) == nil
		redisOK := rc.Raw().Ping(ctx).Err() == nil

		status := "ok"
		code := http.StatusOK
		if !mongoOK || !redisOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":  status,
			"mongodb": mongoOK,
			"redis":   redisOK,
		})
	})
}
