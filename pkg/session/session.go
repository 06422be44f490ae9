package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"

	"libris/pkg/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoSession indicates no stored session is present.
var ErrNoSession = errors.New("no active session")

// TokenIssuer exchanges credentials for an access token.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Session is the explicit, passed-around authentication state. There is no
// ambient global token; callers thread the session through everything that
// needs it.
type Session struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the session's token has lapsed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type accessClaims struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	GivenName string   `json:"given_name"`
	Surname   string   `json:"family_name"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// Login authenticates and builds a session from the issued token's claims.
// The token is parsed without signature verification: the client holds no
// key and only needs display and routing claims, the server stays the
// authority on every request.
func Login(ctx context.Context, issuer TokenIssuer, username, password string) (Session, error) {
	token, err := issuer.Login(ctx, username, password)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	return FromToken(token)
}

// FromToken builds a session from an existing access token.
func FromToken(token string) (Session, error) {
	claims := &accessClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("parse token: %w", err)
	}
	user := domain.User{
		ID:        claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		FirstName: claims.GivenName,
		LastName:  claims.Surname,
	}
	for _, r := range claims.Roles {
		user.Roles = append(user.Roles, domain.Role(r))
	}
	if len(user.Roles) == 0 {
		user.Roles = []domain.Role{domain.RolePatron}
	}
	s := Session{Token: token, User: user}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Save persists the session to path with owner-only permissions.
func (s Session) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load restores a session from path. A missing file means ErrNoSession.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Clear removes the stored session file. Clearing an absent session is fine.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
