package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskfleet/taskfleet/internal/api/shared"
	"github.com/taskfleet/taskfleet/internal/domain"
	"github.com/taskfleet/taskfleet/internal/notify"
	"github.com/taskfleet/taskfleet/internal/store"
)

// TaskHandler handles task CRUD, assignment, and listing endpoints.
// Every successful state-changing operation enqueues exactly one
// notification job; enqueue failures are logged and swallowed because
// the persistence change has already committed.
type TaskHandler struct {
	taskStore store.TaskStore
	userStore store.UserStore
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskStore store.TaskStore,
	userStore store.UserStore,
	notifier notify.Notifier,
	log *slog.Logger,
) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		userStore: userStore,
		notifier:  notifier,
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /api/v1/task/. Manager-only.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	manager, ok := shared.GetCurrentUser(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	responsible, err := h.userStore.GetByID(r.Context(), req.ResponsiblePersonID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User does not exist")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	task, err := domain.NewTask(
		req.Name,
		req.Description,
		req.ResponsiblePersonID,
		manager.ID,
		domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority),
	)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid entity data")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.sendTaskEvent(r, notify.TypeTaskCreated, responsible.Email, task.Name)
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// Update handles PUT /api/v1/task/{task_id}. Manager-only.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathUUID(w, r, "task_id")
	if !ok {
		return
	}

	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responsible, err := h.userStore.GetByID(r.Context(), req.ResponsiblePersonID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User does not exist")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	task.Name = req.Name
	task.Description = req.Description
	task.ResponsiblePersonID = req.ResponsiblePersonID
	task.Status = domain.TaskStatus(req.Status)
	task.Priority = domain.TaskPriority(req.Priority)

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.sendTaskEvent(r, notify.TypeTaskCreated, responsible.Email, task.Name)
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/v1/task/{task_id}. Manager-only.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathUUID(w, r, "task_id")
	if !ok {
		return
	}

	// The task and its responsible person are resolved before deletion
	// so the notification can still name them afterwards.
	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responsible, err := h.userStore.GetByID(r.Context(), task.ResponsiblePersonID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to delete task", err)
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.sendTaskEvent(r, notify.TypeTaskDeleted, responsible.Email, task.Name)
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/task/. Any authenticated user.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq := shared.ParsePageRequest(r)
	page, err := h.taskStore.List(r.Context(), pageReq)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewPageResponse(page, pageReq))
}

// ListMine handles GET /api/v1/task/me/. Returns tasks the current user
// is responsible for or assigned to.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.GetCurrentUser(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	pageReq := shared.ParsePageRequest(r)
	page, err := h.taskStore.ListForUser(r.Context(), user.ID, pageReq)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewPageResponse(page, pageReq))
}

// GetByID handles GET /api/v1/task/{task_id}/.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathUUID(w, r, "task_id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Assign handles POST /api/v1/task/{task_id}/user/{user_id}. Manager-only.
// Assigning the same user twice is a conflict.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathUUID(w, r, "task_id")
	if !ok {
		return
	}
	userID, ok := h.pathUUID(w, r, "user_id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	assignment, err := domain.NewTaskAssignment(taskID, userID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid entity data")
		return
	}

	if err := h.taskStore.Assign(r.Context(), assignment); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.sendTaskEvent(r, notify.TypeTaskAssigned, user.Email, task.Name)
	shared.RespondWithJSON(w, r, http.StatusOK, AssignResponse{
		Task:         task,
		AssignedUser: user,
	})
}

// Unassign handles DELETE /api/v1/task/{task_id}/user/{user_id}. Manager-only.
func (h *TaskHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathUUID(w, r, "task_id")
	if !ok {
		return
	}
	userID, ok := h.pathUUID(w, r, "user_id")
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.taskStore.Unassign(r.Context(), taskID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.sendTaskEvent(r, notify.TypeTaskUnassigned, user.Email, task.Name)
	w.WriteHeader(http.StatusNoContent)
}

// Assignees handles GET /api/v1/task/{task_id}/assigners.
func (h *TaskHandler) Assignees(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.pathUUID(w, r, "task_id")
	if !ok {
		return
	}

	if _, err := h.taskStore.GetByID(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	pageReq := shared.ParsePageRequest(r)
	page, err := h.taskStore.ListAssignees(r.Context(), taskID, pageReq)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list assignees", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewPageResponse(page, pageReq))
}

func (h *TaskHandler) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (CreateTaskRequest, bool) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Malformed JSON body")
		return req, false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err))
		return req, false
	}
	return req, true
}

func (h *TaskHandler) pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
			"Invalid "+param+" path parameter")
		return uuid.Nil, false
	}
	return id, true
}

// sendTaskEvent enqueues a task lifecycle notification, logging failures
// instead of surfacing them to the client.
func (h *TaskHandler) sendTaskEvent(r *http.Request, eventType, email, taskName string) {
	err := h.notifier.SendTaskEvent(r.Context(), eventType, notify.TaskEventPayload{
		Email:    email,
		TaskName: taskName,
	})
	if err != nil {
		h.logger.Warn("failed to enqueue task notification",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
	}
}
