package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

// Store keeps server-side sessions. Get returns ErrSessionNotFound for
// unknown or expired ids.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// SQLStore keeps sessions in the sessions table next to users and tasks
type SQLStore struct {
	store *db.Store
}

// NewSQLStore keeps sessions in store
func NewSQLStore(store *db.Store) *SQLStore {
	return &SQLStore{store: store}
}

// Create inserts the session row
func (s *SQLStore) Create(ctx context.Context, session *models.Session) error {
	return s.store.CreateSession(ctx, session)
}

// Get loads a live session by id
func (s *SQLStore) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if errors.Is(err, db.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

// Delete removes the session row. Unknown ids are not an error.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.store.DeleteSession(ctx, id)
}

// RedisStore keeps sessions as JSON values that Redis expires on its own
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore keeps sessions in client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create stores the session with a TTL that ends at ExpiresAt
func (s *RedisStore) Create(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads a session by id
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete drops the session key
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
