package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

// DefaultSessionTTL is how long a login stays valid
const DefaultSessionTTL = 24 * time.Hour

// Service registers users, checks credentials and manages sessions
type Service struct {
	users    *db.Store
	sessions Store
	tokens   tokens
	ttl      time.Duration
	hashCost int
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// Option configures a Service
type Option func(*Service)

// WithSessionTTL sets the fixed session lifetime
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the auth service. secret signs session tokens.
func NewService(users *db.Store, sessions Store, secret []byte, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = tokens{secret: secret, now: s.now}
	return s
}

// SessionTTL returns the session lifetime
func (s *Service) SessionTTL() time.Duration {
	return s.ttl
}

// Register creates a user. The username is trimmed, passwords are taken as typed.
func (s *Service) Register(ctx context.Context, username, password, confirm string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirm == "" {
		return nil, ErrMissingFields
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword(passwordKey(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if errors.Is(err, db.ErrUserExists) {
		// Lost a race with a concurrent registration
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and opens a session. It returns the signed token
// for the client together with the session record.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, db.ErrUserNotFound) {
		// Burn the same bcrypt time as a real check
		bcrypt.CompareHashAndPassword(s.dummy(), passwordKey(password))
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		UserID:    user.ID,
		Username:  user.Username,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.sign(session)
	if err != nil {
		s.sessions.Delete(ctx, session.ID)
		return "", nil, err
	}
	return token, session, nil
}

// Resolve returns the live session behind a token or ErrUnauthenticated
func (s *Service) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	id, err := s.tokens.parse(token, true)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, ErrUnauthenticated
	}
	return session, nil
}

// Logout destroys the session behind token. Unknown, expired or forged
// tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := s.tokens.parse(token, false)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, id)
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(passwordKey("taskpanel-no-such-user"), s.hashCost)
	})
	return s.dummyHash
}

// passwordKey digests the password before bcrypt, which rejects input over
// 72 bytes. Every password length maps to a 44 byte key.
func passwordKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	key := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(key, sum[:])
	return key
}
