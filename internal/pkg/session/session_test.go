package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockCommands keeps hashes and plain keys in memory and records the TTLs
// and deletions it sees.
type mockCommands struct {
	hashes  map[string]map[string]string
	strings map[string]string
	ttls    map[string]time.Duration
	deleted []string
	err     error
}

func newMockCommands() *mockCommands {
	return &mockCommands{
		hashes:  make(map[string]map[string]string),
		strings: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *mockCommands) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.strings[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *mockCommands) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.strings[key], nil
}

func (m *mockCommands) HSet(_ context.Context, key, field string, value interface{}) error {
	if m.err != nil {
		return m.err
	}
	if m.hashes[key] == nil {
		m.hashes[key] = make(map[string]string)
	}
	m.hashes[key][field] = value.(string)
	return nil
}

func (m *mockCommands) HGet(_ context.Context, key, field string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.hashes[key][field], nil
}

func (m *mockCommands) Expire(_ context.Context, key string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.ttls[key] = ttl
	return nil
}

func (m *mockCommands) Del(_ context.Context, keys ...string) error {
	if m.err != nil {
		return m.err
	}
	for _, k := range keys {
		delete(m.hashes, k)
		delete(m.strings, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

var _ Commands = (*mockCommands)(nil)

func TestPut_DeviceScoped(t *testing.T) {
	cmds := newMockCommands()
	store := NewStore(cmds)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", "tok-a", "dev-1"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got := cmds.hashes["auth:user_sessions:u1"]["dev-1"]; got != "tok-a" {
		t.Errorf("stored token = %q, want tok-a", got)
	}
	if got := cmds.ttls["auth:user_sessions:u1"]; got != TTL {
		t.Errorf("record TTL = %v, want %v", got, TTL)
	}
}

func TestPut_LegacyKey(t *testing.T) {
	cmds := newMockCommands()
	store := NewStore(cmds)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", "tok-a", ""); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got := cmds.strings["auth:refresh_token:u1"]; got != "tok-a" {
		t.Errorf("stored token = %q, want tok-a", got)
	}
	if got := cmds.ttls["auth:refresh_token:u1"]; got != TTL {
		t.Errorf("legacy key TTL = %v, want %v", got, TTL)
	}
	if len(cmds.hashes) != 0 {
		t.Error("legacy write must not touch the device hash")
	}
}

func TestPut_OverwritesSameDevice(t *testing.T) {
	cmds := newMockCommands()
	store := NewStore(cmds)
	ctx := context.Background()

	_ = store.Put(ctx, "u1", "tok-old", "dev-1")
	_ = store.Put(ctx, "u1", "tok-new", "dev-1")

	got, err := store.Get(ctx, "u1", "dev-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "tok-new" {
		t.Errorf("token = %q, want tok-new (last write wins)", got)
	}
}

func TestPut_DevicesAreIndependent(t *testing.T) {
	cmds := newMockCommands()
	store := NewStore(cmds)
	ctx := context.Background()

	_ = store.Put(ctx, "u1", "tok-a", "dev-1")
	_ = store.Put(ctx, "u1", "tok-b", "dev-2")

	if got, _ := store.Get(ctx, "u1", "dev-1"); got != "tok-a" {
		t.Errorf("dev-1 token = %q, want tok-a", got)
	}
	if got, _ := store.Get(ctx, "u1", "dev-2"); got != "tok-b" {
		t.Errorf("dev-2 token = %q, want tok-b", got)
	}
}

func TestGet_AbsentIsNotAnError(t *testing.T) {
	store := NewStore(newMockCommands())
	ctx := context.Background()

	got, err := store.Get(ctx, "nobody", "dev-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Errorf("token = %q, want empty", got)
	}

	got, err = store.Get(ctx, "nobody", "")
	if err != nil {
		t.Fatalf("Get legacy: %v", err)
	}
	if got != "" {
		t.Errorf("legacy token = %q, want empty", got)
	}
}

func TestDeleteAll_RemovesBothKeys(t *testing.T) {
	cmds := newMockCommands()
	store := NewStore(cmds)
	ctx := context.Background()

	_ = store.Put(ctx, "u1", "tok-a", "dev-1")
	_ = store.Put(ctx, "u1", "tok-b", "dev-2")
	_ = store.Put(ctx, "u1", "tok-legacy", "")

	if err := store.DeleteAll(ctx, "u1"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	if got, _ := store.Get(ctx, "u1", "dev-1"); got != "" {
		t.Errorf("dev-1 token survived logout: %q", got)
	}
	if got, _ := store.Get(ctx, "u1", "dev-2"); got != "" {
		t.Errorf("dev-2 token survived logout: %q", got)
	}
	if got, _ := store.Get(ctx, "u1", ""); got != "" {
		t.Errorf("legacy token survived logout: %q", got)
	}
}

func TestDeleteAll_Idempotent(t *testing.T) {
	store := NewStore(newMockCommands())
	ctx := context.Background()

	if err := store.DeleteAll(ctx, "nobody"); err != nil {
		t.Fatalf("DeleteAll on empty store: %v", err)
	}
	if err := store.DeleteAll(ctx, "nobody"); err != nil {
		t.Fatalf("second DeleteAll: %v", err)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	cmds := newMockCommands()
	cmds.err = errors.New("connection refused")
	store := NewStore(cmds)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", "tok", "dev-1"); err == nil {
		t.Error("Put must propagate store errors")
	}
	if _, err := store.Get(ctx, "u1", "dev-1"); err == nil {
		t.Error("Get must propagate store errors")
	}
	if err := store.DeleteAll(ctx, "u1"); err == nil {
		t.Error("DeleteAll must propagate store errors")
	}
}
