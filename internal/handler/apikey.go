package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orgcatalog/orgcatalog/internal/handler/dto"
	"github.com/orgcatalog/orgcatalog/internal/service"
)

// APIKeyHandler handles API key management endpoints.
// All routes require the admin scope.
type APIKeyHandler struct {
	svc     *service.APIKeyService
	logger  *slog.Logger
	maxBody int64
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(svc *service.APIKeyService, logger *slog.Logger, maxBody int64) *APIKeyHandler {
	return &APIKeyHandler{
		svc:     svc,
		logger:  logger,
		maxBody: maxBody,
	}
}

// Create handles POST /api/v1/api-keys.
// The plaintext key appears in this response only and is never stored.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAPIKeyRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	key, plaintext, err := h.svc.CreateAPIKey(r.Context(), service.CreateAPIKeyInput{
		Name:   req.Name,
		Scopes: req.Scopes,
		Tier:   req.Tier,
		Env:    req.Env,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("api_key_created",
		"key_id", key.ID,
		"key_prefix", key.KeyPrefix,
		"scopes", key.Scopes,
	)

	writeJSON(w, http.StatusCreated, dto.CreateAPIKeyResponse{
		APIKeyResponse: *dto.ToAPIKeyResponse(key),
		Key:            plaintext,
	})
}

// List handles GET /api/v1/api-keys.
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.svc.ListAPIKeys(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAPIKeyListResponse(keys))
}

// Revoke handles DELETE /api/v1/api-keys/{id}.
func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "API key ID is required")
		return
	}

	if err := h.svc.RevokeAPIKey(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("api_key_revoked", "key_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *APIKeyHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAPIKeyNotFound):
		writeError(w, http.StatusNotFound, "KEY_NOT_FOUND", "API key not found")
	case errors.Is(err, service.ErrKeyNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Key name is required")
	case errors.Is(err, service.ErrInvalidScope):
		writeError(w, http.StatusBadRequest, "INVALID_SCOPE", "Invalid scope")
	case errors.Is(err, service.ErrInvalidTier):
		writeError(w, http.StatusBadRequest, "INVALID_TIER", "Invalid rate limit tier")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
