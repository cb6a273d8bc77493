package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskfleet/taskfleet/internal/api/shared"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/platform/cache"
	"github.com/taskfleet/taskfleet/internal/store"
)

// UserHandler serves the read-only user endpoints. Role listings are
// cached in Redis because they change rarely relative to how often
// clients poll them.
type UserHandler struct {
	userStore store.UserStore
	cache     cache.Cache
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore, c cache.Cache, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	if c == nil {
		c = cache.NoopCache{}
	}
	return &UserHandler{
		userStore: userStore,
		cache:     c,
		logger:    log.With(slog.String("component", "user_handler")),
	}
}

// Me handles GET /api/v1/user/me/.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.GetCurrentUser(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Managers handles GET /api/v1/user/managers/.
func (h *UserHandler) Managers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, domain.RoleManager)
}

// Developers handles GET /api/v1/user/developers/.
func (h *UserHandler) Developers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, domain.RoleDeveloper)
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, role domain.Role) {
	pageReq := shared.ParsePageRequest(r)
	cacheKey := userListCacheKey(role, pageReq)

	var cached shared.PageResponse[domain.User]
	if err := h.cache.Get(r.Context(), cacheKey, &cached); err == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, cached)
		return
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache degrades to a database read.
		h.logger.Warn("user list cache read failed",
			slog.String("key", cacheKey),
			slog.String("error", err.Error()))
	}

	page, err := h.userStore.ListByRole(r.Context(), role, pageReq)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	resp := shared.NewPageResponse(page, pageReq)
	if err := h.cache.Set(r.Context(), cacheKey, resp); err != nil {
		h.logger.Warn("user list cache write failed",
			slog.String("key", cacheKey),
			slog.String("error", err.Error()))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func userListCacheKey(role domain.Role, page store.PageRequest) string {
	return fmt.Sprintf("users:%s:page=%d:size=%d", role, page.Number, page.Size)
}
