package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/balkashynov/taskpanel/internal/db"
)

var testSecret = []byte("test-secret")

func newTestStore(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestService(t *testing.T, opts ...Option) (*Service, *db.Store) {
	t.Helper()

	store := newTestStore(t)
	opts = append([]Option{WithHashCost(bcrypt.MinCost)}, opts...)
	return NewService(store, NewSQLStore(store), testSecret, opts...), store
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     error
	}{
		{"empty username", "", "pw", "pw", ErrMissingFields},
		{"blank username", "   ", "pw", "pw", ErrMissingFields},
		{"empty password", "alice", "", "pw", ErrMissingFields},
		{"empty confirm", "alice", "pw", "", ErrMissingFields},
		{"mismatch", "alice", "pw1", "pw2", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password, tt.confirm)
			if err != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to match ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegister_StoresHashAndRejectsDuplicates(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " alice ", "pw1", "pw1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected trimmed username, got %q", user.Username)
	}

	stored, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("User not stored: %v", err)
	}
	if stored.PasswordHash == "pw1" || !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Errorf("Expected a bcrypt hash, got %q", stored.PasswordHash)
	}

	for _, username := range []string{"alice", "  alice"} {
		if _, err := svc.Register(ctx, username, "other", "other"); err != ErrConflict {
			t.Errorf("Register(%q) again: expected ErrConflict, got %v", username, err)
		}
	}
}

func TestRegister_LongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	password := strings.Repeat("a", 80)
	if _, err := svc.Register(ctx, "bob", password, password); err != nil {
		t.Fatalf("Register with an 80 byte password failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, "bob", password); err != nil {
		t.Errorf("Login with the full password failed: %v", err)
	}
	// bcrypt alone would only compare the first 72 bytes
	if _, _, err := svc.Login(ctx, "bob", password[:72]); err != ErrInvalidCredentials {
		t.Errorf("Expected a truncated password to be rejected, got %v", err)
	}
}

func TestLogin_WrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "pw1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "alice", "nope")
	_, _, unknownUser := svc.Login(ctx, "mallory", "pw1")
	_, _, emptyPassword := svc.Login(ctx, "alice", "")

	for name, err := range map[string]error{
		"wrong password": wrongPassword,
		"unknown user":   unknownUser,
		"empty password": emptyPassword,
	} {
		if err != ErrInvalidCredentials {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("Error messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestLogin_ResolveLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1", "pw1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, session, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" || session.UserID != user.ID || session.Username != "alice" {
		t.Fatalf("Unexpected login result: token=%q session=%+v", token, session)
	}
	if got := session.ExpiresAt.Sub(session.CreatedAt); got != DefaultSessionTTL {
		t.Errorf("Expected session lifetime %v, got %v", DefaultSessionTTL, got)
	}

	resolved, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.ID != session.ID || resolved.UserID != user.ID {
		t.Errorf("Resolved wrong session: %+v", resolved)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); err != ErrUnauthenticated {
		t.Errorf("Expected ErrUnauthenticated after logout, got %v", err)
	}

	// Logging out again is harmless
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("Second logout failed: %v", err)
	}
}

func TestResolve_RejectsBadTokens(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	svc.Register(ctx, "alice", "pw1", "pw1")
	token, _, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	forger := NewService(store, NewSQLStore(store), []byte("another-secret"))

	tests := []struct {
		name  string
		svc   *Service
		token string
	}{
		{"empty", svc, ""},
		{"garbage", svc, "not.a.token"},
		{"tampered", svc, token + "x"},
		{"wrong secret", forger, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Resolve(ctx, tt.token); err != ErrUnauthenticated {
				t.Errorf("Expected ErrUnauthenticated, got %v", err)
			}
		})
	}

	if err := svc.Logout(ctx, "not.a.token"); err != nil {
		t.Errorf("Logout with garbage token should be a no-op, got %v", err)
	}
}

func TestResolve_ExpiredSession(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	svc, _ := newTestService(t, WithClock(clock), WithSessionTTL(time.Hour))
	ctx := context.Background()

	svc.Register(ctx, "alice", "pw1", "pw1")
	token, _, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, err := svc.Resolve(ctx, token); err != nil {
		t.Errorf("Session should still be live: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := svc.Resolve(ctx, token); err != ErrUnauthenticated {
		t.Errorf("Expected ErrUnauthenticated after expiry, got %v", err)
	}

	// Expired tokens can still log out
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("Logout with expired token failed: %v", err)
	}
}
