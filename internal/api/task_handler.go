package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskhive/taskhive/internal/api/shared"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// taskUpdatableFields is the allow-list for PATCH /tasks/{id}. Ownership and
// identity are immutable, so only the mutable content fields appear here.
var taskUpdatableFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// TaskHandler handles task API requests. Every operation is scoped to the
// authenticated owner; a task belonging to someone else is indistinguishable
// from one that does not exist.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. If logger is nil, the default
// logger is used.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := domain.NewTask(userID, req.Description, req.Completed)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// List handles GET /tasks with optional completed, sortBy, limit and skip
// query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	opts := parseListOptions(r)

	tasks, err := h.taskStore.List(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PATCH /tasks/{id}. Only fields on the allow-list may be
// changed; an empty update is rejected.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var updates map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := checkAllowedFields(updates, taskUpdatableFields); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Fetch within the owner scope so a foreign task reads as missing.
	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := applyTaskUpdates(task, updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id}. The response echoes the deleted task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskStore.Delete(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// parseListOptions reads the task listing query parameters. Malformed limit
// and skip values are ignored rather than rejected, and any completed value
// other than "true" (case-insensitive) filters for incomplete tasks.
func parseListOptions(r *http.Request) store.ListOptions {
	var opts store.ListOptions
	query := r.URL.Query()

	if param := query.Get("completed"); param != "" {
		completed := strings.EqualFold(param, "true")
		opts.Completed = &completed
	}

	if param := query.Get("sortBy"); param != "" {
		field, dir, found := strings.Cut(param, ":")
		opts.SortBy = field
		if found && dir == "desc" {
			opts.SortDesc = true
		}
	}

	if param := query.Get("limit"); param != "" {
		if limit, err := strconv.Atoi(param); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}

	if param := query.Get("skip"); param != "" {
		if skip, err := strconv.Atoi(param); err == nil && skip > 0 {
			opts.Skip = skip
		}
	}

	return opts
}
