package handler

import (
	"net/http"

	"govtrack/internal/model"
	"govtrack/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RepresentativeHandler handles representative endpoints
type RepresentativeHandler struct {
	repSvc *service.RepresentativeService
	logger *zap.Logger
}

// NewRepresentativeHandler creates a new representative handler
func NewRepresentativeHandler(repSvc *service.RepresentativeService, logger *zap.Logger) *RepresentativeHandler {
	return &RepresentativeHandler{repSvc: repSvc, logger: logger}
}

// List handles GET /v1/representatives
//
//	@Summary	List representatives
//	@Tags		representatives
//	@Produce	json
//	@Param		party	query		string	false	"Party"
//	@Param		state	query		string	false	"State"
//	@Param		level	query		string	false	"federal, state or local"
//	@Param		limit	query		int		false	"Maximum results"
//	@Success	200		{object}	map[string][]model.Representative
//	@Router		/representatives [get]
func (h *RepresentativeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.RepresentativeFilter{
		Party: q.Get("party"),
		State: q.Get("state"),
		Level: q.Get("level"),
		Limit: queryLimit(r),
	}

	reps, err := h.repSvc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"representatives": reps})
}

// Get handles GET /v1/representatives/{id}
//
//	@Summary	Get a representative
//	@Tags		representatives
//	@Produce	json
//	@Param		id	path		string	true	"Representative ID"
//	@Success	200	{object}	model.Representative
//	@Failure	404	{object}	ErrorResponse
//	@Router		/representatives/{id} [get]
func (h *RepresentativeHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.repSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// Votes handles GET /v1/representatives/{id}/votes
//
//	@Summary	Voting history
//	@Tags		representatives
//	@Produce	json
//	@Param		id	path		string	true	"Representative ID"
//	@Success	200	{object}	map[string][]model.RepresentativeVote
//	@Failure	404	{object}	ErrorResponse
//	@Router		/representatives/{id}/votes [get]
func (h *RepresentativeHandler) Votes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.repSvc.VotingHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"votes": votes})
}

// Create handles POST /v1/representatives
func (h *RepresentativeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rep model.Representative
	if !decodeJSON(w, r, &rep) {
		return
	}

	id, err := h.repSvc.Create(r.Context(), &rep)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"representativeId": id})
}

// Update handles PUT /v1/representatives/{id}
func (h *RepresentativeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var rep model.Representative
	if !decodeJSON(w, r, &rep) {
		return
	}
	rep.ID = mux.Vars(r)["id"]

	if err := h.repSvc.Update(r.Context(), &rep); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// Delete handles DELETE /v1/representatives/{id}
func (h *RepresentativeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
