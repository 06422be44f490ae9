package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"libris/pkg/domain"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

type fakeIssuer struct {
	token string
	err   error
}

func (f fakeIssuer) Login(context.Context, string, string) (string, error) {
	return f.token, f.err
}

func TestLoginBuildsSessionFromClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{
		"sub":         "u1",
		"username":    "pat",
		"email":       "pat@example.com",
		"given_name":  "Pat",
		"family_name": "Reader",
		"roles":       []string{"Patron", "Librarian"},
		"exp":         exp.Unix(),
	})

	sess, err := Login(context.Background(), fakeIssuer{token: token}, "pat", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.User.ID != "u1" || sess.User.Username != "pat" {
		t.Fatalf("user = %+v", sess.User)
	}
	if !sess.User.HasRole(domain.RoleLibrarian) {
		t.Fatalf("librarian role missing: %+v", sess.User.Roles)
	}
	if !sess.ExpiresAt.Equal(exp) {
		t.Fatalf("expires = %v, want %v", sess.ExpiresAt, exp)
	}
	if sess.Expired(exp.Add(-time.Minute)) {
		t.Fatalf("session should be valid before expiry")
	}
	if !sess.Expired(exp.Add(time.Minute)) {
		t.Fatalf("session should be expired after expiry")
	}
}

func TestLoginFailurePropagates(t *testing.T) {
	wantErr := errors.New("invalid credentials")
	if _, err := Login(context.Background(), fakeIssuer{err: wantErr}, "pat", "wrong"); !errors.Is(err, wantErr) {
		t.Fatalf("expected credential error, got %v", err)
	}
}

func TestFromTokenDefaultsToPatron(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "u2", "username": "solo"})
	sess, err := FromToken(token)
	if err != nil {
		t.Fatalf("from token: %v", err)
	}
	if !sess.User.HasRole(domain.RolePatron) {
		t.Fatalf("a session with no role claims defaults to Patron, got %+v", sess.User.Roles)
	}
}

func TestFromTokenRejectsGarbage(t *testing.T) {
	if _, err := FromToken("not-a-jwt"); err == nil {
		t.Fatalf("garbage token should fail to parse")
	}
}

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	token := signToken(t, jwt.MapClaims{"sub": "u1", "username": "pat"})
	sess, err := FromToken(token)
	if err != nil {
		t.Fatalf("from token: %v", err)
	}
	if err := sess.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Token != sess.Token || loaded.User.ID != "u1" {
		t.Fatalf("loaded = %+v", loaded)
	}

	if err := Clear(path); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoSession) {
		t.Fatalf("load after clear should be ErrNoSession, got %v", err)
	}
	// Clearing twice is fine.
	if err := Clear(path); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent")); !errors.Is(err, ErrNoSession) {
		t.Fatalf("missing file should be ErrNoSession, got %v", err)
	}
}
