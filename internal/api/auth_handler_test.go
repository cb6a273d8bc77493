package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/mocks"
	"github.com/taskfleet/taskfleet/internal/notify"
	"github.com/taskfleet/taskfleet/internal/service/auth"
	"github.com/taskfleet/taskfleet/internal/store"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:                   "test-secret-that-is-32-characters!!",
	AccessTokenLifetimeMinutes:  60,
	RefreshTokenLifetimeMinutes: 10080,
	InviteTokenLifetimeMinutes:  1440,
}

func newTestAuthHandler(
	userStore *mocks.MockUserStore,
	tokenService *mocks.MockTokenService,
	notifier *mocks.RecorderNotifier,
) *AuthHandler {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	return NewAuthHandler(userStore, tokenService, hasher, hasher, notifier, testAuthConfig, nil)
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeTokenPair(t *testing.T, body *httptest.ResponseRecorder) TokenPairResponse {
	t.Helper()
	var pair TokenPairResponse
	require.NoError(t, json.NewDecoder(body.Body).Decode(&pair))
	return pair
}

func TestManagerSignUp(t *testing.T) {
	t.Parallel()

	validForm := url.Values{
		"name":             {"Jane Manager X"},
		"email":            {"jane@example.com"},
		"password":         {"longenough1"},
		"password_confirm": {"longenough1"},
	}

	t.Run("success returns 201 with token pair", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{}
		tokenService := &mocks.MockTokenService{Token: "signed-token"}
		h := newTestAuthHandler(userStore, tokenService, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.ManagerSignUp(recorder, postForm("/api/v1/auth/manager-sign-up/", validForm))

		require.Equal(t, http.StatusCreated, recorder.Code)
		pair := decodeTokenPair(t, recorder)
		assert.Equal(t, "signed-token", pair.AccessToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, 60, pair.AccessTokenLifetime)
		assert.Equal(t, 10080, pair.RefreshTokenLifetime)

		require.Len(t, userStore.CreateCalls, 1)
		created := userStore.CreateCalls[0]
		assert.Equal(t, domain.RoleManager, created.Role)
		assert.NotEmpty(t, created.HashedPassword)
		assert.NotEqual(t, "longenough1", created.HashedPassword)
	})

	t.Run("password mismatch is 422 before persistence", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{}
		h := newTestAuthHandler(userStore, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		form := url.Values{}
		for k, v := range validForm {
			form[k] = v
		}
		form.Set("password_confirm", "different123")

		recorder := httptest.NewRecorder()
		h.ManagerSignUp(recorder, postForm("/api/v1/auth/manager-sign-up/", form))

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Empty(t, userStore.CreateCalls)
	})

	t.Run("short name is 422", func(t *testing.T) {
		t.Parallel()
		h := newTestAuthHandler(&mocks.MockUserStore{}, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		form := url.Values{}
		for k, v := range validForm {
			form[k] = v
		}
		form.Set("name", "short")

		recorder := httptest.NewRecorder()
		h.ManagerSignUp(recorder, postForm("/api/v1/auth/manager-sign-up/", form))

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{Exists: true}
		h := newTestAuthHandler(userStore, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.ManagerSignUp(recorder, postForm("/api/v1/auth/manager-sign-up/", validForm))

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Empty(t, userStore.CreateCalls)
	})

	t.Run("insert race on unique constraint is 409", func(t *testing.T) {
		t.Parallel()
		// The pre-check passes but a concurrent sign-up wins the insert.
		userStore := &mocks.MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		h := newTestAuthHandler(userStore, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.ManagerSignUp(recorder, postForm("/api/v1/auth/manager-sign-up/", validForm))

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestDeveloperInvitation(t *testing.T) {
	t.Parallel()

	body := `{"name":"John Developer","email":"dev@example.com"}`

	t.Run("success enqueues invite and returns 200", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{}
		tokenService := &mocks.MockTokenService{Token: "invite-token"}
		notifier := &mocks.RecorderNotifier{}
		h := newTestAuthHandler(userStore, tokenService, notifier)

		req := httptest.NewRequest("POST", "/api/v1/auth/developer-invitation/", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		h.DeveloperInvitation(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "We have sent invite to dev@example.com")

		require.Len(t, userStore.CreateCalls, 1)
		created := userStore.CreateCalls[0]
		assert.Equal(t, domain.RoleDeveloper, created.Role)
		assert.Empty(t, created.HashedPassword, "invited developer has no password yet")

		jobs := notifier.JobsOfType(notify.TypeInviteEmail)
		require.Len(t, jobs, 1)
		assert.Equal(t, "dev@example.com", jobs[0].Invite.Email)
		assert.Equal(t, "invite-token", jobs[0].Invite.InviteToken)
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		t.Parallel()
		h := newTestAuthHandler(
			&mocks.MockUserStore{Exists: true},
			&mocks.MockTokenService{},
			&mocks.RecorderNotifier{},
		)

		req := httptest.NewRequest("POST", "/api/v1/auth/developer-invitation/", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		h.DeveloperInvitation(recorder, req)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("failed enqueue still returns 200", func(t *testing.T) {
		t.Parallel()
		notifier := &mocks.RecorderNotifier{Err: assert.AnError}
		h := newTestAuthHandler(&mocks.MockUserStore{}, &mocks.MockTokenService{Token: "t"}, notifier)

		req := httptest.NewRequest("POST", "/api/v1/auth/developer-invitation/", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		h.DeveloperInvitation(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("malformed JSON is 422", func(t *testing.T) {
		t.Parallel()
		h := newTestAuthHandler(&mocks.MockUserStore{}, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		req := httptest.NewRequest("POST", "/api/v1/auth/developer-invitation/", strings.NewReader("{"))
		recorder := httptest.NewRecorder()
		h.DeveloperInvitation(recorder, req)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestDeveloperSignUp(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	invited := &domain.User{
		ID:    userID,
		Email: "dev@example.com",
		Name:  "John Developer",
		Role:  domain.RoleDeveloper,
	}

	validForm := url.Values{
		"token":            {"invite-token"},
		"password":         {"longenough1"},
		"password_confirm": {"longenough1"},
	}

	t.Run("success sets password and returns 201", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{User: invited}
		tokenService := &mocks.MockTokenService{
			Claims: &auth.Claims{UserID: userID, TokenKind: auth.TokenKindInvite},
			Token:  "fresh-token",
		}
		h := newTestAuthHandler(userStore, tokenService, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.DeveloperSignUp(recorder, postForm("/api/v1/auth/developer-sign-up/", validForm))

		require.Equal(t, http.StatusCreated, recorder.Code)
		require.Len(t, userStore.SetPasswordCalls, 1)
		assert.Equal(t, userID, userStore.SetPasswordCalls[0])

		pair := decodeTokenPair(t, recorder)
		assert.Equal(t, "Bearer", pair.TokenType)
	})

	t.Run("invalid or expired invite token is 409", func(t *testing.T) {
		t.Parallel()
		tokenService := &mocks.MockTokenService{Err: auth.ErrExpiredToken}
		h := newTestAuthHandler(&mocks.MockUserStore{}, tokenService, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.DeveloperSignUp(recorder, postForm("/api/v1/auth/developer-sign-up/", validForm))

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "User does not exist or token expired")
	})

	t.Run("missing subject user is 409", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{Err: store.ErrUserNotFound}
		tokenService := &mocks.MockTokenService{
			Claims: &auth.Claims{UserID: userID, TokenKind: auth.TokenKindInvite},
		}
		h := newTestAuthHandler(userStore, tokenService, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.DeveloperSignUp(recorder, postForm("/api/v1/auth/developer-sign-up/", validForm))

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("password mismatch is 422", func(t *testing.T) {
		t.Parallel()
		h := newTestAuthHandler(&mocks.MockUserStore{}, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		form := url.Values{}
		for k, v := range validForm {
			form[k] = v
		}
		form.Set("password_confirm", "different123")

		recorder := httptest.NewRecorder()
		h.DeveloperSignUp(recorder, postForm("/api/v1/auth/developer-sign-up/", form))

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("longenough1")
	require.NoError(t, err)

	user := &domain.User{
		ID:             uuid.New(),
		Email:          "jane@example.com",
		Name:           "Jane Manager X",
		HashedPassword: hashed,
		Role:           domain.RoleManager,
	}

	form := func(password string) url.Values {
		return url.Values{
			"email":    {"jane@example.com"},
			"password": {password},
		}
	}

	t.Run("correct credentials return 200 with pair", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{User: user}
		tokenService := &mocks.MockTokenService{Token: "signed-token"}
		h := newTestAuthHandler(userStore, tokenService, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.Login(recorder, postForm("/api/v1/auth/access-token/", form("longenough1")))

		require.Equal(t, http.StatusOK, recorder.Code)
		pair := decodeTokenPair(t, recorder)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("unknown email is 404", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{Err: store.ErrUserNotFound}
		h := newTestAuthHandler(userStore, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.Login(recorder, postForm("/api/v1/auth/access-token/", form("longenough1")))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("wrong password is 403", func(t *testing.T) {
		t.Parallel()
		userStore := &mocks.MockUserStore{User: user}
		h := newTestAuthHandler(userStore, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.Login(recorder, postForm("/api/v1/auth/access-token/", form("wrongpassword")))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid credentials")
	})

	t.Run("invited developer without password is 403", func(t *testing.T) {
		t.Parallel()
		pending := &domain.User{
			ID:    uuid.New(),
			Email: "jane@example.com",
			Role:  domain.RoleDeveloper,
		}
		userStore := &mocks.MockUserStore{User: pending}
		h := newTestAuthHandler(userStore, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		recorder := httptest.NewRecorder()
		h.Login(recorder, postForm("/api/v1/auth/access-token/", form("longenough1")))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "jane@example.com", Role: domain.RoleManager}

	t.Run("valid refresh token returns fresh pair", func(t *testing.T) {
		t.Parallel()
		tokenService := &mocks.MockTokenService{
			Claims: &auth.Claims{UserID: userID, TokenKind: auth.TokenKindRefresh},
			Token:  "fresh-token",
		}
		h := newTestAuthHandler(&mocks.MockUserStore{User: user}, tokenService, &mocks.RecorderNotifier{})

		req := httptest.NewRequest("POST", "/api/v1/auth/refresh-token/", nil)
		req.Header.Set("Authorization", "Bearer old-refresh-token")
		recorder := httptest.NewRecorder()
		h.RefreshToken(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		pair := decodeTokenPair(t, recorder)
		assert.Equal(t, "fresh-token", pair.AccessToken)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		t.Parallel()
		h := newTestAuthHandler(&mocks.MockUserStore{}, &mocks.MockTokenService{}, &mocks.RecorderNotifier{})

		req := httptest.NewRequest("POST", "/api/v1/auth/refresh-token/", nil)
		recorder := httptest.NewRecorder()
		h.RefreshToken(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid token is 403", func(t *testing.T) {
		t.Parallel()
		tokenService := &mocks.MockTokenService{Err: auth.ErrInvalidToken}
		h := newTestAuthHandler(&mocks.MockUserStore{}, tokenService, &mocks.RecorderNotifier{})

		req := httptest.NewRequest("POST", "/api/v1/auth/refresh-token/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		recorder := httptest.NewRecorder()
		h.RefreshToken(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("missing subject user is 404", func(t *testing.T) {
		t.Parallel()
		tokenService := &mocks.MockTokenService{
			Claims: &auth.Claims{UserID: userID, TokenKind: auth.TokenKindRefresh},
		}
		userStore := &mocks.MockUserStore{Err: store.ErrUserNotFound}
		h := newTestAuthHandler(userStore, tokenService, &mocks.RecorderNotifier{})

		req := httptest.NewRequest("POST", "/api/v1/auth/refresh-token/", nil)
		req.Header.Set("Authorization", "Bearer valid-refresh-token")
		recorder := httptest.NewRecorder()
		h.RefreshToken(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "User blocked or not found")
	})
}
