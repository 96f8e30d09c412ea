package session

import (
	"context"
	"fmt"
	"time"
)

// TTL is the sliding expiration applied to a user's whole session record
// whenever any device token is written. It matches the refresh token's life.
const TTL = 7 * 24 * time.Hour

const (
	deviceKeyPrefix = "auth:user_sessions:"
	legacyKeyPrefix = "auth:refresh_token:"
)

// Commands is the subset of Redis operations the store needs. Every
// operation is a single atomic key/hash command; no transactions.
type Commands interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	HSet(ctx context.Context, key, field string, value interface{}) error
	HGet(ctx context.Context, key, field string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Store persists the currently valid refresh token per (user, device).
// The store's state is the sole authority on whether a presented refresh
// token is still valid; the signature alone is not enough.
type Store struct {
	cmds Commands
}

// NewStore builds a Store on top of the given Redis commands.
func NewStore(cmds Commands) *Store {
	return &Store{cmds: cmds}
}

// key is the storage location for one session write or read, resolved once
// per request from the presence of a device id. Device-scoped sessions live
// in a per-user hash keyed by device; requests without a device id fall back
// to the legacy single-session string key.
type key struct {
	name   string
	device string // hash field; empty means legacy string key
}

func resolveKey(userID, deviceID string) key {
	if deviceID != "" {
		return key{name: deviceKeyPrefix + userID, device: deviceID}
	}
	return key{name: legacyKeyPrefix + userID}
}

func (k key) isDevice() bool { return k.device != "" }

// Put writes the refresh token for the resolved key, silently overwriting
// any prior token for the same device, and resets the 7-day expiration of
// the whole per-user record.
func (s *Store) Put(ctx context.Context, userID, token, deviceID string) error {
	k := resolveKey(userID, deviceID)
	if !k.isDevice() {
		if err := s.cmds.Set(ctx, k.name, token, TTL); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
		return nil
	}

	if err := s.cmds.HSet(ctx, k.name, k.device, token); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if err := s.cmds.Expire(ctx, k.name, TTL); err != nil {
		return fmt.Errorf("expire session record: %w", err)
	}
	return nil
}

// Get returns the stored refresh token for the resolved key, or "" when the
// session is absent or expired. Absence is not an error.
func (s *Store) Get(ctx context.Context, userID, deviceID string) (string, error) {
	k := resolveKey(userID, deviceID)
	if k.isDevice() {
		token, err := s.cmds.HGet(ctx, k.name, k.device)
		if err != nil {
			return "", fmt.Errorf("load refresh token: %w", err)
		}
		return token, nil
	}

	token, err := s.cmds.Get(ctx, k.name)
	if err != nil {
		return "", fmt.Errorf("load refresh token: %w", err)
	}
	return token, nil
}

// DeleteAll removes every device session for the user plus the legacy key.
// Deleting a non-existent session is not an error.
func (s *Store) DeleteAll(ctx context.Context, userID string) error {
	if err := s.cmds.Del(ctx, deviceKeyPrefix+userID, legacyKeyPrefix+userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
