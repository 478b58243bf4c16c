package handler

import (
	"context"
	"net/http"

	"govtrack/internal/model"
	"govtrack/internal/service"
	"govtrack/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ProfileHandler handles the signed-in user's profile endpoints
type ProfileHandler struct {
	profileSvc *service.ProfileService
	logger     *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileSvc *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, logger: logger}
}

// Get handles GET /v1/profile
//
//	@Summary	Current user's profile
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.Profile
//	@Failure	401	{object}	ErrorResponse
//	@Router		/profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profileSvc.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Update handles PUT /v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.profileSvc.Update(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Save handles POST /v1/profile/saved/{kind}/{id}
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.bookmark(w, r, h.profileSvc.Save)
}

// Unsave handles DELETE /v1/profile/saved/{kind}/{id}
func (h *ProfileHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	h.bookmark(w, r, h.profileSvc.Unsave)
}

type bookmarkFunc func(ctx context.Context, userID string, kind model.SavedKind, itemID string) error

func (h *ProfileHandler) bookmark(w http.ResponseWriter, r *http.Request, apply bookmarkFunc) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	if err := apply(r.Context(), userID, model.SavedKind(vars["kind"]), vars["id"]); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Results handles GET /v1/profile/results
func (h *ProfileHandler) Results(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	results, err := h.profileSvc.Results(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
