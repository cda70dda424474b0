package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /tasks. The owner is always the authenticated
// user: a client-supplied owner field is ignored, not rejected.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	var req dto.CreateTaskRequest
	if err := dto.Decode(r.Body, &req); err != nil {
		h.handleError(w, err)
		return
	}

	task, err := h.svc.Create(r.Context(), ownerID, service.CreateTaskInput{
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("task_created", "task_id", task.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusOK, task)
}

// List handles GET /tasks. Query params: completed (bool string),
// sortBy (field:asc|desc), limit, page.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	result, err := h.svc.List(r.Context(), ownerID, parseListQuery(r.URL.Query()))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(result.Count, result.Tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	task, err := h.svc.FetchByID(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	var req dto.UpdateTaskRequest
	if err := dto.DecodeStrict(r.Body, dto.TaskUpdateFields, &req); err != nil {
		h.handleError(w, err)
		return
	}

	task, err := h.svc.Update(r.Context(), ownerID, chi.URLParam(r, "id"), service.UpdateTaskInput{
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("task_updated", "task_id", task.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())

	task, err := h.svc.Remove(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("task_deleted", "task_id", task.ID, "owner_id", ownerID)

	writeJSON(w, http.StatusOK, task)
}

// parseListQuery translates the listing query params, leaving clamping
// of out-of-range numbers to the service defaults.
func parseListQuery(query url.Values) service.ListTasksInput {
	input := service.ListTasksInput{
		SortBy: query.Get("sortBy"),
	}

	if completed := query.Get("completed"); completed != "" {
		value := completed == "true"
		input.Completed = &value
	}

	if limit := query.Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			input.PageSize = parsed
		}
	}
	if page := query.Get("page"); page != "" {
		if parsed, err := strconv.Atoi(page); err == nil {
			input.Page = parsed
		}
	}

	return input
}

// handleError maps domain errors to HTTP responses.
func (h *TaskHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dto.ErrDisallowedField):
		writeError(w, http.StatusNotAcceptable, "DISALLOWED_FIELD", "unknown/disallowed field requested")
	case errors.Is(err, dto.ErrInvalidJSON):
		writeError(w, http.StatusNotAcceptable, "INVALID_BODY", "invalid request body")
	case errors.Is(err, service.ErrMalformedID):
		writeError(w, http.StatusNotAcceptable, "MALFORMED_ID", "incorrect task id, please try again")
	case service.IsValidationError(err):
		writeError(w, http.StatusNotAcceptable, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrTaskNotFound):
		// Not-owned and nonexistent report identically.
		writeError(w, http.StatusNotFound, "NOT_FOUND", "task not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
