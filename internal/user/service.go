package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/session"
)

// Sessions is the part of the session manager the auth flows drive.
type Sessions interface {
	Begin(ctx context.Context, token string, profile *session.Profile) error
	End(ctx context.Context) error
	Current() session.Session
}

type Service struct {
	api      apiclient.API
	sessions Sessions
	logger   *zap.Logger
}

func NewService(api apiclient.API, sessions Sessions, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, sessions: sessions, logger: logger}
}

// Login authenticates and starts a new session.
func (s *Service) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	if creds.isMissingRequiredFields() {
		return AuthResponse{}, ErrMissingFields
	}
	creds.Email = strings.TrimSpace(creds.Email)

	var resp AuthResponse
	if err := s.api.Post(ctx, "/auth/authenticate", nil, creds, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.Token == "" {
		return AuthResponse{}, ErrInvalidResponse
	}

	profile := &session.Profile{
		ID:        resp.ID,
		Firstname: resp.Firstname,
		Lastname:  resp.Lastname,
		Email:     resp.Email,
		Role:      resp.Role,
	}
	if err := s.sessions.Begin(ctx, resp.Token, profile); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Register creates an account and keeps the returned token.
func (s *Service) Register(ctx context.Context, r Registration) (AuthResponse, error) {
	if r.isMissingRequiredFields() {
		return AuthResponse{}, ErrMissingFields
	}
	r.Firstname = strings.TrimSpace(r.Firstname)
	r.Lastname = strings.TrimSpace(r.Lastname)
	r.Email = strings.TrimSpace(r.Email)

	var resp AuthResponse
	if err := s.api.Post(ctx, "/auth/register", nil, r, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.Token == "" {
		return AuthResponse{}, ErrInvalidResponse
	}
	if err := s.sessions.Begin(ctx, resp.Token, nil); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Logout clears the session and everything kept in local storage.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.End(ctx)
}

// LandingPath is where a fresh login goes: admins land on the dashboard.
func LandingPath(resp AuthResponse, role session.Role) string {
	if resp.Role == session.RoleAdmin.String() || role == session.RoleAdmin {
		return "/admin-dashboard"
	}
	return "/"
}
