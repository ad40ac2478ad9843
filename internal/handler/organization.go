package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orgcatalog/orgcatalog/internal/handler/dto"
	"github.com/orgcatalog/orgcatalog/internal/service"
)

// OrganizationHandler handles HTTP requests for organization CRUD.
type OrganizationHandler struct {
	svc     *service.OrganizationService
	logger  *slog.Logger
	maxBody int64
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(svc *service.OrganizationService, logger *slog.Logger, maxBody int64) *OrganizationHandler {
	return &OrganizationHandler{
		svc:     svc,
		logger:  logger,
		maxBody: maxBody,
	}
}

// Create handles POST /api/v1/organizations.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrganizationRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	org, err := h.svc.CreateOrganization(r.Context(), service.CreateOrganizationInput{
		Name:        req.Name,
		BuildingID:  req.BuildingID,
		Phones:      req.Phones,
		ActivityIDs: req.ActivityIDs,
	})
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("organization_created",
		"organization_id", org.ID,
		"building_id", org.BuildingID,
	)

	writeJSON(w, http.StatusCreated, dto.ToOrganizationResponse(org))
}

// Get handles GET /api/v1/organizations/{id}.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Organization ID is required")
		return
	}

	org, err := h.svc.GetOrganization(r.Context(), id)
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationResponse(org))
}

// Update handles PATCH /api/v1/organizations/{id}.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Organization ID is required")
		return
	}

	var req dto.UpdateOrganizationRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	org, err := h.svc.UpdateOrganization(r.Context(), service.UpdateOrganizationInput{
		ID:          id,
		Name:        req.Name,
		BuildingID:  req.BuildingID,
		Phones:      req.Phones,
		ActivityIDs: req.ActivityIDs,
	})
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("organization_updated", "organization_id", org.ID)

	writeJSON(w, http.StatusOK, dto.ToOrganizationResponse(org))
}

// Delete handles DELETE /api/v1/organizations/{id}.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Organization ID is required")
		return
	}

	if err := h.svc.DeleteOrganization(r.Context(), id); err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("organization_deleted", "organization_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleOrgServiceError maps organization service errors to HTTP
// responses. Shared with the search handler.
func handleOrgServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrOrganizationNotFound):
		writeError(w, http.StatusNotFound, "ORGANIZATION_NOT_FOUND", "Organization not found")
	case errors.Is(err, service.ErrNoOrganizationsFound):
		writeError(w, http.StatusNotFound, "NO_ORGANIZATIONS_FOUND", "No organizations found")
	case errors.Is(err, service.ErrBuildingNotFound):
		writeError(w, http.StatusNotFound, "BUILDING_NOT_FOUND", "Building not found")
	case errors.Is(err, service.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "ACTIVITY_NOT_FOUND", "Activity not found")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Organization name is required")
	case errors.Is(err, service.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, "INVALID_PHONE", "Phone number is invalid")
	case errors.Is(err, service.ErrInvalidCoordinates):
		writeError(w, http.StatusBadRequest, "INVALID_COORDINATES", "Coordinates out of range")
	case errors.Is(err, service.ErrInvalidRadius):
		writeError(w, http.StatusBadRequest, "INVALID_RADIUS", "Radius must be positive")
	case errors.Is(err, service.ErrRadiusTooLarge):
		writeError(w, http.StatusUnprocessableEntity, "RADIUS_TOO_LARGE", "Radius exceeds the maximum allowed")
	case errors.Is(err, service.ErrInvalidBoundingBox):
		writeError(w, http.StatusBadRequest, "INVALID_BBOX", "Bounding box is invalid")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
