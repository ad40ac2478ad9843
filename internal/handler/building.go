package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orgcatalog/orgcatalog/internal/handler/dto"
	"github.com/orgcatalog/orgcatalog/internal/service"
)

// BuildingHandler handles HTTP requests for building operations.
type BuildingHandler struct {
	svc     *service.BuildingService
	logger  *slog.Logger
	maxBody int64
}

// NewBuildingHandler creates a new BuildingHandler.
func NewBuildingHandler(svc *service.BuildingService, logger *slog.Logger, maxBody int64) *BuildingHandler {
	return &BuildingHandler{
		svc:     svc,
		logger:  logger,
		maxBody: maxBody,
	}
}

// Create handles POST /api/v1/buildings.
func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBuildingRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	building, err := h.svc.CreateBuilding(r.Context(), service.CreateBuildingInput{
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("building_created",
		"building_id", building.ID,
		"address", building.Address,
	)

	writeJSON(w, http.StatusCreated, dto.ToBuildingResponse(building))
}

// Get handles GET /api/v1/buildings/{id}.
func (h *BuildingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Building ID is required")
		return
	}

	building, err := h.svc.GetBuilding(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBuildingResponse(building))
}

// List handles GET /api/v1/buildings.
// Supports skip/limit query parameters.
func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	skip := 0
	if s := query.Get("skip"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "INVALID_SKIP", "skip must be a non-negative integer")
			return
		}
		skip = parsed
	}

	limit := 0
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	buildings, err := h.svc.ListBuildings(r.Context(), skip, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBuildingListResponse(buildings))
}

// handleServiceError maps service errors to HTTP responses.
func (h *BuildingHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBuildingNotFound):
		writeError(w, http.StatusNotFound, "BUILDING_NOT_FOUND", "Building not found")
	case errors.Is(err, service.ErrAddressRequired):
		writeError(w, http.StatusBadRequest, "ADDRESS_REQUIRED", "Address is required")
	case errors.Is(err, service.ErrInvalidCoordinates):
		writeError(w, http.StatusBadRequest, "INVALID_COORDINATES", "Coordinates out of range")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
