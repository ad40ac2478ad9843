package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orgcatalog/orgcatalog/internal/geo"
	"github.com/orgcatalog/orgcatalog/internal/handler/dto"
	"github.com/orgcatalog/orgcatalog/internal/service"
)

// SearchHandler handles the organization search endpoints.
type SearchHandler struct {
	svc    *service.OrganizationService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.OrganizationService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		svc:    svc,
		logger: logger,
	}
}

// ByBuilding handles GET /api/v1/organizations/building/{id} and its
// alias GET /api/v1/buildings/{id}/organizations.
// Responds 404 when the building is unknown or empty.
func (h *SearchHandler) ByBuilding(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "id")
	if buildingID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Building ID is required")
		return
	}

	orgs, err := h.svc.SearchByBuilding(r.Context(), buildingID)
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationListResponse(orgs))
}

// ByActivity handles GET /api/v1/organizations/activity/{id} and its
// alias GET /api/v1/activities/{id}/organizations.
// Matches the activity and its whole subtree. Responds 404 when the
// activity is unknown or nothing matches.
func (h *SearchHandler) ByActivity(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "id")
	if activityID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Activity ID is required")
		return
	}

	orgs, err := h.svc.SearchByActivity(r.Context(), activityID)
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationListResponse(orgs))
}

// ByRadius handles GET /api/v1/organizations/radius and its alias
// GET /api/v1/organizations/search/radius.
// Query parameters: lat, lon, radius_km.
func (h *SearchHandler) ByRadius(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, ok := parseFloatParam(w, query.Get("lat"), "lat")
	if !ok {
		return
	}
	lon, ok := parseFloatParam(w, query.Get("lon"), "lon")
	if !ok {
		return
	}
	radiusKM, ok := parseFloatParam(w, query.Get("radius_km"), "radius_km")
	if !ok {
		return
	}

	center := geo.Point{Latitude: lat, Longitude: lon}
	orgs, err := h.svc.SearchByRadius(r.Context(), center, radiusKM)
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationListResponse(orgs))
}

// ByBBox handles GET /api/v1/organizations/bbox and its alias
// GET /api/v1/organizations/search/bbox.
// Query parameters: min_lat, max_lat, min_lon, max_lon.
func (h *SearchHandler) ByBBox(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	minLat, ok := parseFloatParam(w, query.Get("min_lat"), "min_lat")
	if !ok {
		return
	}
	maxLat, ok := parseFloatParam(w, query.Get("max_lat"), "max_lat")
	if !ok {
		return
	}
	minLon, ok := parseFloatParam(w, query.Get("min_lon"), "min_lon")
	if !ok {
		return
	}
	maxLon, ok := parseFloatParam(w, query.Get("max_lon"), "max_lon")
	if !ok {
		return
	}

	box := geo.BBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}

	orgs, err := h.svc.SearchByBBox(r.Context(), box)
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationListResponse(orgs))
}

// ByName handles GET /api/v1/organizations/search/name.
// Query parameter: name (case-insensitive substring).
func (h *SearchHandler) ByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	orgs, err := h.svc.SearchByName(r.Context(), name)
	if err != nil {
		handleOrgServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToOrganizationListResponse(orgs))
}

// parseFloatParam parses a required float query parameter, writing a
// 400 response when missing or malformed.
func parseFloatParam(w http.ResponseWriter, raw, name string) (float64, bool) {
	if raw == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAM", name+" is required")
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PARAM", name+" must be a number")
		return 0, false
	}

	return value, true
}
