package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mist-space/auth-core/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mu     sync.Mutex
	client *mongo.Client
)

// Connect returns the process-wide MongoDB client, establishing the
// connection on first use. The guard allows at most one initialization in
// flight; a failed attempt leaves the cached client nil so the next call
// retries instead of reusing a dead handle.
func Connect(ctx context.Context, cfg *config.AppConfig) (*mongo.Client, error) {
	mu.Lock()
	defer mu.Unlock()

	if client != nil {
		return client, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := c.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	client = c
	return client, nil
}

// Database returns the application database on the shared client.
func Database(ctx context.Context, cfg *config.AppConfig) (*mongo.Database, error) {
	c, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c.Database(cfg.MongoDB), nil
}

// Disconnect closes the shared client. Subsequent Connect calls reconnect.
func Disconnect(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if client == nil {
		return nil
	}
	err := client.Disconnect(ctx)
	client = nil
	return err
}
