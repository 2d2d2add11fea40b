package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wichananm65/storefront-console/internal/storage"
)

var ErrMissingToken = errors.New("login response carried no token")

// Profile is the user record kept next to the token.
type Profile struct {
	ID        int64  `json:"id,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// DisplayName is "first last", or "User" when both are blank.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.Firstname) + " " + strings.TrimSpace(p.Lastname))
	if name == "" {
		return "User"
	}
	return name
}

// Session is a snapshot of the signed-in state.
type Session struct {
	Token       string
	Role        Role
	DisplayName string
	Profile     *Profile
}

// SignedIn reports whether a token is present.
func (s Session) SignedIn() bool { return s.Token != "" }

// Manager is the single writer of session state. Every collaborator reads the
// token through it and all mutations go through Begin, End and Expire.
type Manager struct {
	mu      sync.RWMutex
	store   storage.Storage
	logger  *zap.Logger
	current Session
	hooks   []func()
}

// Open restores the session persisted in store.
func Open(ctx context.Context, store storage.Storage, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: store, logger: logger}

	token, _, err := store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if token == "" {
		return m, nil
	}

	s := Session{Token: token, Role: RoleFromToken(token)}
	if name, ok, err := store.Get(ctx, storage.KeyUsername); err == nil && ok {
		s.DisplayName = name
	}
	if raw, ok, err := store.Get(ctx, storage.KeyUser); err == nil && ok && raw != "" {
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logger.Warn("ignoring unreadable stored profile", zap.Error(err))
		} else {
			s.Profile = &p
			if s.DisplayName == "" {
				s.DisplayName = p.DisplayName()
			}
		}
	}
	m.current = s
	return m, nil
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

func (m *Manager) Role() Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Role
}

func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.current
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}

// Begin replaces the session after a successful login or registration.
// A nil profile keeps only the token, as registration does.
func (m *Manager) Begin(ctx context.Context, token string, profile *Profile) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}

	s := Session{Token: token, Role: RoleFromToken(token)}
	values := map[string]string{storage.KeyAuthToken: token}
	if profile != nil {
		p := *profile
		p.Firstname = strings.TrimSpace(p.Firstname)
		p.Lastname = strings.TrimSpace(p.Lastname)
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		s.Profile = &p
		s.DisplayName = p.DisplayName()
		values[storage.KeyUsername] = s.DisplayName
		values[storage.KeyUser] = string(raw)
	}
	if s.Role != RoleNone {
		values[storage.KeyRole] = s.Role.String()
	}

	m.mu.Lock()
	err := m.persist(ctx, values)
	if err != nil {
		// a half-written session is dropped from storage and memory alike
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Error("failed to clear partial session", zap.Error(clearErr))
		}
		m.current = Session{}
	} else {
		m.current = s
		m.logger.Info("session started", zap.String("role", s.Role.String()))
	}
	m.mu.Unlock()
	m.changed()
	return err
}

// persist writes the new values first and only then drops keys the new
// session does not carry.
func (m *Manager) persist(ctx context.Context, values map[string]string) error {
	var stale []string
	for _, key := range storage.SessionKeys {
		v, ok := values[key]
		if !ok {
			stale = append(stale, key)
			continue
		}
		if err := m.store.Set(ctx, key, v); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
	}
	if len(stale) > 0 {
		if err := m.store.Remove(ctx, stale...); err != nil {
			return fmt.Errorf("drop stale session keys: %w", err)
		}
	}
	return nil
}

// End signs out and clears every stored key.
func (m *Manager) End(ctx context.Context) error {
	defer m.changed()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}
	m.logger.Info("session ended")
	return nil
}

// Expire tears down the session after a protected endpoint rejected the token.
func (m *Manager) Expire(path string) {
	m.mu.Lock()
	if m.current.Token == "" {
		m.mu.Unlock()
		return
	}
	m.current = Session{}
	if err := m.store.Clear(context.Background()); err != nil {
		m.logger.Error("failed to clear expired session", zap.String("path", path), zap.Error(err))
	} else {
		m.logger.Warn("session expired", zap.String("path", path))
	}
	m.mu.Unlock()
	m.changed()
}

// OnChange registers fn to run after every sign-in, sign-out and expiry.
// Hooks run outside the manager's lock.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

func (m *Manager) changed() {
	m.mu.RLock()
	hooks := append([]func(){}, m.hooks...)
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}
