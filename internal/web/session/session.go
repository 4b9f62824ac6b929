// Package session issues and resolves the opaque tokens carried by the admin session cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// DefaultTTL is the lifetime of a session when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// ErrStorageNil is returned by NewManager without a storage backend.
var ErrStorageNil = errors.New("session storage is nil")

// UserLookup loads the user a session belongs to.
// A missing user is reported with an error wrapping apperr.ErrNotFound.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
}

// Data is the stored value of a session.
type Data struct {
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager creates, resolves and destroys sessions kept in a fiber.Storage.
type Manager struct {
	storage fiber.Storage
	users   UserLookup
	ttl     time.Duration

	now func() time.Time
}

// NewManager creates a session manager. A ttl of 0 means DefaultTTL.
func NewManager(storage fiber.Storage, users UserLookup, ttl time.Duration) (*Manager, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		storage: storage,
		users:   users,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for user and returns its token.
func (m *Manager) Create(_ context.Context, user *models.User) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := m.now().UTC()
	data := Data{
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	out, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	if err = m.storage.Set(token, out, m.ttl); err != nil {
		return "", apperr.Storage("write session", err)
	}

	return token, nil
}

// Resolve returns the active user of the session identified by token.
//
// An empty, unknown or expired token resolves to (nil, nil), and so does a session
// whose user was removed or disabled. Expired sessions are removed from the storage.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := m.storage.Get(token)
	if err != nil {
		return nil, apperr.Storage("read session", err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var data Data
	if err = json.Unmarshal(raw, &data); err != nil {
		log.Warn().Err(err).Msg("dropping unreadable session")
		m.drop(token)

		return nil, nil
	}

	if !m.now().Before(data.ExpiresAt) {
		m.drop(token)

		return nil, nil
	}

	user, err := m.users.GetUserByID(ctx, data.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, nil
	}

	return user, nil
}

// Destroy removes the session. Unknown tokens are not an error.
func (m *Manager) Destroy(_ context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := m.storage.Delete(token); err != nil {
		return apperr.Storage("delete session", err)
	}

	return nil
}

func (m *Manager) drop(token string) {
	if err := m.storage.Delete(token); err != nil {
		log.Warn().Err(err).Msg("failed to delete stale session")
	}
}

// GenerateToken generates a new secure random session token.
func GenerateToken() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
