package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/storefront-console/internal/storage"
)

func TestProfile_DisplayName(t *testing.T) {
	if got := (Profile{Firstname: " Asha ", Lastname: "Rao"}).DisplayName(); got != "Asha Rao" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := (Profile{Firstname: "Asha"}).DisplayName(); got != "Asha" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := (Profile{}).DisplayName(); got != "User" {
		t.Fatalf("expected fallback name, got %q", got)
	}
}

func TestManager_BeginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryStorage(nil)
	m, err := Open(ctx, store, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if m.Current().SignedIn() {
		t.Fatalf("expected empty session")
	}

	tok := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_ADMIN"}})
	if err := m.Begin(ctx, tok, &Profile{ID: 7, Firstname: "Asha", Lastname: "Rao", Email: "a@r.in"}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if m.Role() != RoleAdmin || m.Token() != tok {
		t.Fatalf("unexpected session %+v", m.Current())
	}

	if v, _, _ := store.Get(ctx, storage.KeyUsername); v != "Asha Rao" {
		t.Fatalf("expected stored username, got %q", v)
	}
	if v, _, _ := store.Get(ctx, storage.KeyRole); v != "ADMIN" {
		t.Fatalf("expected stored role, got %q", v)
	}
	raw, _, _ := store.Get(ctx, storage.KeyUser)
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID != 7 {
		t.Fatalf("expected stored profile, got %q (%v)", raw, err)
	}

	// a restart reads the same state back
	again, err := Open(ctx, store, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	cur := again.Current()
	if cur.Token != tok || cur.Role != RoleAdmin || cur.DisplayName != "Asha Rao" || cur.Profile == nil {
		t.Fatalf("unexpected restored session %+v", cur)
	}
}

func TestManager_BeginReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryStorage(nil)
	m, _ := Open(ctx, store, nil)

	admin := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_ADMIN"}})
	if err := m.Begin(ctx, admin, &Profile{Firstname: "Asha"}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	bare := signed(t, jwt.MapClaims{"sub": "new"})
	if err := m.Begin(ctx, bare, nil); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if m.Role() != RoleNone {
		t.Fatalf("expected role recomputed from new token, got %v", m.Role())
	}
	for _, key := range []string{storage.KeyUsername, storage.KeyUser, storage.KeyRole} {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Fatalf("expected %s dropped by the new session", key)
		}
	}
	if err := m.Begin(ctx, "  ", nil); err != ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if m.Token() != bare {
		t.Fatalf("failed begin must not change the session")
	}
}

func TestManager_EndAndExpire(t *testing.T) {
	ctx := context.Background()
	tok := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_USER"}})
	store := storage.NewInMemoryStorage(map[string]string{
		storage.KeyAuthToken: tok,
		storage.KeyUsername:  "Asha",
	})
	m, _ := Open(ctx, store, nil)
	if m.Role() != RoleUser || m.Current().DisplayName != "Asha" {
		t.Fatalf("unexpected restored session %+v", m.Current())
	}

	m.Expire("/cart")
	if m.Token() != "" || len(store.Keys()) != 0 {
		t.Fatalf("expected expire to clear everything, keys=%v", store.Keys())
	}

	_ = m.Begin(ctx, tok, nil)
	if err := m.End(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}
	if m.Current().SignedIn() || len(store.Keys()) != 0 {
		t.Fatalf("expected logout to clear everything")
	}
}

func TestManager_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	m, _ := Open(ctx, storage.NewInMemoryStorage(nil), nil)
	tok := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_USER"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = m.Token()
				_ = m.Current()
			}
		}()
	}
	for i := 0; i < 10; i++ {
		_ = m.Begin(ctx, tok, &Profile{Firstname: "A"})
		m.Expire("/orders")
	}
	wg.Wait()
}

// failingStore rejects writes to one key.
type failingStore struct {
	*storage.InMemoryStorage
	failKey string
}

func (s failingStore) Set(ctx context.Context, key, value string) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.InMemoryStorage.Set(ctx, key, value)
}

func TestManager_BeginFailureLeavesNoPartialSession(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewInMemoryStorage(nil)
	old := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_USER"}})
	m, _ := Open(ctx, mem, nil)
	if err := m.Begin(ctx, old, &Profile{Firstname: "Asha"}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	m.store = failingStore{InMemoryStorage: mem, failKey: storage.KeyUser}
	next := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_ADMIN"}})
	if err := m.Begin(ctx, next, &Profile{Firstname: "Vikram"}); err == nil {
		t.Fatalf("expected persist error")
	}

	if m.Current().SignedIn() {
		t.Fatalf("memory must drop a session storage could not keep, got %+v", m.Current())
	}
	restored, err := Open(ctx, mem, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if restored.Current().SignedIn() {
		t.Fatalf("restart must not restore a partial session, keys=%v", mem.Keys())
	}
}

func TestManager_OnChange(t *testing.T) {
	ctx := context.Background()
	m, _ := Open(ctx, storage.NewInMemoryStorage(nil), nil)
	calls := 0
	m.OnChange(func() {
		calls++
		// hooks may read the manager
		_ = m.Token()
	})

	tok := signed(t, jwt.MapClaims{"authorities": []string{"ROLE_USER"}})
	_ = m.Begin(ctx, tok, nil)
	_ = m.End(ctx)
	m.Expire("/cart")
	_ = m.Begin(ctx, tok, nil)
	m.Expire("/cart")
	if calls != 4 {
		t.Fatalf("expected hooks after begin, end, begin and expire, got %d", calls)
	}
}
