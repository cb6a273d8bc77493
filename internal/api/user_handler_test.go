package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfleet/taskfleet/internal/api/shared"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/mocks"
	"github.com/taskfleet/taskfleet/internal/platform/cache"
	"github.com/taskfleet/taskfleet/internal/store"
)

// memoryCache is a map-backed cache.Cache for exercising hit and miss
// paths without a Redis server.
type memoryCache struct {
	entries map[string][]byte
	getErr  error
	sets    []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets = append(c.sets, key)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func TestUserMe(t *testing.T) {
	t.Parallel()

	t.Run("returns the current user without the password digest", func(t *testing.T) {
		t.Parallel()
		user := &domain.User{
			ID:             uuid.New(),
			Email:          "jane@example.com",
			Name:           "Jane Manager X",
			HashedPassword: "$2a$10$secret",
			Role:           domain.RoleManager,
		}
		h := NewUserHandler(&mocks.MockUserStore{}, nil, nil)

		req := httptest.NewRequest("GET", "/user/me/", nil)
		req = req.WithContext(shared.SetCurrentUser(req.Context(), user))
		recorder := httptest.NewRecorder()
		h.Me(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		body := recorder.Body.String()
		assert.Contains(t, body, "jane@example.com")
		assert.NotContains(t, body, "secret")

		// The role serializes under the "status" key.
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &decoded))
		assert.Equal(t, "Manager", decoded["status"])
	})

	t.Run("missing current user is 401", func(t *testing.T) {
		t.Parallel()
		h := NewUserHandler(&mocks.MockUserStore{}, nil, nil)

		recorder := httptest.NewRecorder()
		h.Me(recorder, httptest.NewRequest("GET", "/user/me/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestUserListByRole(t *testing.T) {
	t.Parallel()

	developers := &store.Page[domain.User]{
		Items: []domain.User{
			{ID: uuid.New(), Email: "a@example.com", Role: domain.RoleDeveloper},
			{ID: uuid.New(), Email: "b@example.com", Role: domain.RoleDeveloper},
		},
		Total: 2,
	}

	t.Run("miss reads the store and populates the cache", func(t *testing.T) {
		t.Parallel()
		c := newMemoryCache()
		userStore := &mocks.MockUserStore{Users: developers}
		h := NewUserHandler(userStore, c, nil)

		recorder := httptest.NewRecorder()
		h.Developers(recorder, httptest.NewRequest("GET", "/user/developers/?page=1&size=10", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var page shared.PageResponse[domain.User]
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&page))
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.Total)

		require.Len(t, c.sets, 1)
		assert.Equal(t, "users:Developer:page=1:size=10", c.sets[0])
	})

	t.Run("hit skips the store entirely", func(t *testing.T) {
		t.Parallel()
		c := newMemoryCache()
		storeCalled := false
		userStore := &mocks.MockUserStore{
			ListByRoleFn: func(
				_ context.Context, _ domain.Role, _ store.PageRequest,
			) (*store.Page[domain.User], error) {
				storeCalled = true
				return developers, nil
			},
		}
		h := NewUserHandler(userStore, c, nil)

		// First request populates, second must be served from cache.
		h.Developers(httptest.NewRecorder(),
			httptest.NewRequest("GET", "/user/developers/?page=1&size=10", nil))
		require.True(t, storeCalled)

		storeCalled = false
		recorder := httptest.NewRecorder()
		h.Developers(recorder, httptest.NewRequest("GET", "/user/developers/?page=1&size=10", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, storeCalled)
	})

	t.Run("broken cache degrades to database reads", func(t *testing.T) {
		t.Parallel()
		c := newMemoryCache()
		c.getErr = assert.AnError
		userStore := &mocks.MockUserStore{Users: developers}
		h := NewUserHandler(userStore, c, nil)

		recorder := httptest.NewRecorder()
		h.Managers(recorder, httptest.NewRequest("GET", "/user/managers/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{Err: assert.AnError}
		h := NewUserHandler(userStore, nil, nil)

		recorder := httptest.NewRecorder()
		h.Managers(recorder, httptest.NewRequest("GET", "/user/managers/", nil))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}
