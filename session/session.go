package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionExpiry bounds how long a session survives without a fresh login.
	SessionExpiry = 24 * time.Hour

	sessionKeyPrefix = "session_cache:"
)

// ErrNotFound is returned when no session exists for the given id, either
// because it expired or because logout destroyed it.
var ErrNotFound = errors.New("session not found")

// KV is the key-value store a Store persists sessions in. *cache.Cache
// satisfies it; tests substitute an in-memory fake.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Session is the explicit per-login context passed to every upstream call.
// It replaces ambient global lookups of the bearer token: a request built
// from a Session cannot observe a token cleared by a concurrent logout.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserType     string    `json:"user_type"`
	StaffSubRole string    `json:"staff_sub_role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists sessions with a full login/logout lifecycle: Create on
// successful authentication, Destroy clears everything at logout.
type Store struct {
	kv     KV
	expiry time.Duration
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, expiry: SessionExpiry}
}

// Create assigns the session a fresh id and persists it.
func (s *Store) Create(ctx context.Context, sess Session) (Session, error) {
	sess.ID = uuid.New().String()
	sess.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey(sess.ID), string(payload), s.expiry); err != nil {
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

// Get loads the session for the given id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Destroy removes the session entirely. Subsequent Gets return ErrNotFound.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, sessionKey(id))
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
