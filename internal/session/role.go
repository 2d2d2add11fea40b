package session

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Role is the coarse permission level read from a token's claims.
type Role int

const (
	RoleNone Role = iota
	RoleUser
	RoleAdmin
)

const (
	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return ""
	}
}

var ErrNoToken = errors.New("no token")

// DecodeClaims reads the claims payload of token without verifying its signature.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// RoleFromToken derives the role from the token's authorities claim.
// Missing or undecodable tokens map to RoleNone.
func RoleFromToken(token string) Role {
	claims, err := DecodeClaims(token)
	if err != nil {
		return RoleNone
	}
	return roleFromClaims(claims)
}

func roleFromClaims(claims jwt.MapClaims) Role {
	authorities := authoritiesOf(claims)
	for _, a := range authorities {
		if a == AuthorityAdmin {
			return RoleAdmin
		}
	}
	for _, a := range authorities {
		if a == AuthorityUser {
			return RoleUser
		}
	}
	return RoleNone
}

// authoritiesOf accepts both ["ROLE_ADMIN"] and [{"authority":"ROLE_ADMIN"}].
func authoritiesOf(claims jwt.MapClaims) []string {
	raw, ok := claims["authorities"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}:
			if s, ok := v["authority"].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// Decision is the outcome of a route guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

// Target is the path a redirecting decision points at.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return "/login"
	case RedirectHome:
		return "/"
	default:
		return ""
	}
}

// Authorize decides whether a view guarded by allowed may render for token.
// It is advisory only; the backend authorizes every call on its own.
func Authorize(token string, allowed ...Role) Decision {
	claims, err := DecodeClaims(token)
	if err != nil {
		return RedirectLogin
	}
	role := roleFromClaims(claims)
	for _, r := range allowed {
		if r == role && r != RoleNone {
			return Allow
		}
	}
	return RedirectHome
}
