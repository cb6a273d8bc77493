package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskfleet/taskfleet/internal/api/middleware"
	"github.com/taskfleet/taskfleet/internal/api/shared"
	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/notify"
	"github.com/taskfleet/taskfleet/internal/service/auth"
	"github.com/taskfleet/taskfleet/internal/store"
)

// AuthHandler handles sign-up, invitation, login, and token refresh.
type AuthHandler struct {
	userStore        store.UserStore
	tokenService     auth.TokenService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	notifier         notify.Notifier
	authConfig       config.AuthConfig
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	tokenService auth.TokenService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
	notifier notify.Notifier,
	authConfig config.AuthConfig,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		tokenService:     tokenService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		notifier:         notifier,
		authConfig:       authConfig,
		logger:           log.With(slog.String("component", "auth_handler")),
	}
}

// ManagerSignUp handles POST /api/v1/auth/manager-sign-up/.
// Accepts a form-encoded body and returns a fresh token pair on success.
func (h *AuthHandler) ManagerSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Malformed form body")
		return
	}

	req := ManagerSignUpRequest{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err))
		return
	}
	if req.Password != req.PasswordConfirm {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Password mismatch")
		return
	}

	// Pre-check only. Concurrent sign-ups can still race past it, which
	// the unique constraint catches at insert time.
	exists, err := h.userStore.EmailExists(r.Context(), req.Email)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	if exists {
		shared.RespondWithError(w, r, http.StatusConflict,
			fmt.Sprintf("User with email %s exists", req.Email))
		return
	}

	user, err := domain.NewManager(req.Name, req.Email)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid entity data")
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	user.HashedPassword = hashed

	if err := h.userStore.Create(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("manager signed up", slog.String("user_id", user.ID.String()))
	h.respondWithTokenPair(w, r, user, http.StatusCreated)
}

// DeveloperInvitation handles POST /api/v1/auth/developer-invitation/.
// Manager-only. Creates a passwordless developer row and enqueues an
// invite email carrying a short-lived invite token.
func (h *AuthHandler) DeveloperInvitation(w http.ResponseWriter, r *http.Request) {
	var req DeveloperInviteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Malformed JSON body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err))
		return
	}

	exists, err := h.userStore.EmailExists(r.Context(), req.Email)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create invitation", err)
		return
	}
	if exists {
		shared.RespondWithError(w, r, http.StatusConflict,
			fmt.Sprintf("User with email %s exists", req.Email))
		return
	}

	user, err := domain.NewInvitedDeveloper(req.Name, req.Email)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid entity data")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	inviteToken, err := h.tokenService.GenerateInviteToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create invitation", err)
		return
	}

	// Fire-and-forget: the developer row is committed, so a failed
	// enqueue is logged but does not fail the request.
	if err := h.notifier.SendInvite(r.Context(), notify.InvitePayload{
		Email:       req.Email,
		InviteToken: inviteToken,
	}); err != nil {
		h.logger.Warn("failed to enqueue invite email",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}

	h.logger.Info("developer invited", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MsgResponse{
		Msg: fmt.Sprintf("We have sent invite to %s", req.Email),
	})
}

// DeveloperSignUp handles POST /api/v1/auth/developer-sign-up/.
// Redeems an invite token by setting the invited developer's password.
func (h *AuthHandler) DeveloperSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Malformed form body")
		return
	}

	req := DeveloperSignUpRequest{
		Token:           r.PostFormValue("token"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err))
		return
	}
	if req.Password != req.PasswordConfirm {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Password mismatch")
		return
	}

	claims, err := h.tokenService.ValidateToken(r.Context(), req.Token, auth.TokenKindInvite)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusConflict,
			"User does not exist or token expired")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusConflict,
				"User does not exist or token expired")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to complete sign-up", err)
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to complete sign-up", err)
		return
	}

	if err := h.userStore.SetPassword(r.Context(), user.ID, hashed); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("developer signed up", slog.String("user_id", user.ID.String()))
	h.respondWithTokenPair(w, r, user, http.StatusCreated)
}

// Login handles POST /api/v1/auth/access-token/.
// An unknown email is 404, a wrong password is 403.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Malformed form body")
		return
	}

	req := LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	// Invited developers have no password yet; Compare fails on the
	// empty digest and falls through to the same rejection.
	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusForbidden, "Invalid credentials")
		return
	}

	h.logger.Info("user logged in", slog.String("user_id", user.ID.String()))
	h.respondWithTokenPair(w, r, user, http.StatusOK)
}

// RefreshToken handles POST /api/v1/auth/refresh-token/.
// The refresh token is carried in the Authorization header; a valid one
// yields a fresh pair. Refresh tokens are not rotated or revoked.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	claims, err := h.tokenService.ValidateToken(r.Context(), token, auth.TokenKindRefresh)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusForbidden, "Could not validate credentials")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User blocked or not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to refresh token", err)
		return
	}

	h.respondWithTokenPair(w, r, user, http.StatusOK)
}

// respondWithTokenPair issues an access/refresh pair for the user and
// writes the standard token response.
func (h *AuthHandler) respondWithTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	status int,
) {
	accessToken, err := h.tokenService.GenerateAccessToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to issue tokens", err)
		return
	}
	refreshToken, err := h.tokenService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to issue tokens", err)
		return
	}

	shared.RespondWithJSON(w, r, status, TokenPairResponse{
		AccessToken:          accessToken,
		RefreshToken:         refreshToken,
		TokenType:            "Bearer",
		AccessTokenLifetime:  h.authConfig.AccessTokenLifetimeMinutes,
		RefreshTokenLifetime: h.authConfig.RefreshTokenLifetimeMinutes,
	})
}
