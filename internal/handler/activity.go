package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orgcatalog/orgcatalog/internal/handler/dto"
	"github.com/orgcatalog/orgcatalog/internal/service"
)

// ActivityHandler handles HTTP requests for activity operations.
type ActivityHandler struct {
	svc     *service.ActivityService
	logger  *slog.Logger
	maxBody int64
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, logger *slog.Logger, maxBody int64) *ActivityHandler {
	return &ActivityHandler{
		svc:     svc,
		logger:  logger,
		maxBody: maxBody,
	}
}

// Create handles POST /api/v1/activities.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateActivityRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	activity, err := h.svc.CreateActivity(r.Context(), service.CreateActivityInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("activity_created",
		"activity_id", activity.ID,
		"level", activity.Level,
	)

	writeJSON(w, http.StatusCreated, dto.ToActivityResponse(activity))
}

// Get handles GET /api/v1/activities/{id}.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Activity ID is required")
		return
	}

	activity, err := h.svc.GetActivity(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActivityResponse(activity))
}

// Tree handles GET /api/v1/activities.
// Returns the full activity forest with nested children.
func (h *ActivityHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.GetActivityTree(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActivityTreeResponse(roots))
}

// handleServiceError maps service errors to HTTP responses.
func (h *ActivityHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "ACTIVITY_NOT_FOUND", "Activity not found")
	case errors.Is(err, service.ErrParentActivityNotFound):
		writeError(w, http.StatusBadRequest, "PARENT_NOT_FOUND", "Parent activity not found")
	case errors.Is(err, service.ErrActivityTooDeep):
		writeError(w, http.StatusUnprocessableEntity, "TREE_TOO_DEEP", "Activity tree depth limit exceeded")
	case errors.Is(err, service.ErrActivityNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Activity name is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
