package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// testStorage is a minimal in-memory implementation of fiber.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil

	return nil
}

func (s *testStorage) Close() error { return nil }

func (s *testStorage) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// failingStorage fails every call.
type failingStorage struct{ testStorage }

var errDown = errors.New("storage down")

func (*failingStorage) Get(string) ([]byte, error)              { return nil, errDown }
func (*failingStorage) Set(string, []byte, time.Duration) error { return errDown }
func (*failingStorage) Delete(string) error                     { return errDown }

// testUsers is an in-memory UserLookup.
type testUsers map[uint64]*models.User

func (u testUsers) GetUserByID(_ context.Context, id uint64) (*models.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}

	return user, nil
}

func newTestManager(t *testing.T, users testUsers) (*Manager, *testStorage) {
	t.Helper()

	storage := &testStorage{}
	m, err := NewManager(storage, users, time.Hour)
	require.NoError(t, err)

	return m, storage
}

func TestNewManager(t *testing.T) {
	_, err := NewManager(nil, testUsers{}, 0)
	assert.ErrorIs(t, err, ErrStorageNil)

	m, err := NewManager(&testStorage{}, testUsers{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, m.TTL())
}

func TestCreateAndResolve(t *testing.T) {
	alice := &models.User{ID: 7, Username: "alice", Role: models.RoleEditor, IsActive: true}
	m, storage := newTestManager(t, testUsers{7: alice})

	token, err := m.Create(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, 1, storage.len())

	user, err := m.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)

	other, err := m.Create(context.Background(), alice)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestResolveAbsent(t *testing.T) {
	m, storage := newTestManager(t, testUsers{})

	testCases := []struct {
		name  string
		token string
		seed  []byte
	}{
		{name: "empty token", token: ""},
		{name: "unknown token", token: "deadbeef"},
		{name: "garbage value", token: "garbage", seed: []byte("{not json")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.seed != nil {
				require.NoError(t, storage.Set(tc.token, tc.seed, 0))
			}

			user, err := m.Resolve(context.Background(), tc.token)
			assert.NoError(t, err)
			assert.Nil(t, user)
		})
	}

	assert.Equal(t, 0, storage.len())
}

func TestResolveExpired(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", Role: models.RoleAdmin, IsActive: true}
	m, storage := newTestManager(t, testUsers{1: alice})

	token, err := m.Create(context.Background(), alice)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	user, err := m.Resolve(context.Background(), token)
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, 0, storage.len(), "expired session is removed")
}

func TestResolveUserState(t *testing.T) {
	active := &models.User{ID: 1, Username: "active", Role: models.RoleAdmin, IsActive: true}
	users := testUsers{1: active}
	m, _ := newTestManager(t, users)

	token, err := m.Create(context.Background(), active)
	require.NoError(t, err)

	t.Run("disabled user", func(t *testing.T) {
		users[1] = &models.User{ID: 1, Username: "active", Role: models.RoleAdmin, IsActive: false}

		user, err := m.Resolve(context.Background(), token)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("removed user", func(t *testing.T) {
		delete(users, 1)

		user, err := m.Resolve(context.Background(), token)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestDestroy(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", Role: models.RoleAdmin, IsActive: true}
	m, _ := newTestManager(t, testUsers{1: alice})

	token, err := m.Create(context.Background(), alice)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(context.Background(), token))
	require.NoError(t, m.Destroy(context.Background(), token), "destroy is idempotent")
	require.NoError(t, m.Destroy(context.Background(), ""))

	user, err := m.Resolve(context.Background(), token)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestStorageErrors(t *testing.T) {
	m, err := NewManager(&failingStorage{}, testUsers{}, time.Hour)
	require.NoError(t, err)

	_, err = m.Create(context.Background(), &models.User{ID: 1})
	assert.ErrorIs(t, err, apperr.ErrStorage)

	_, err = m.Resolve(context.Background(), "token")
	assert.ErrorIs(t, err, apperr.ErrStorage)

	err = m.Destroy(context.Background(), "token")
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
