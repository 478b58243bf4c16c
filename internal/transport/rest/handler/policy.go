package handler

import (
	"net/http"

	"govtrack/internal/model"
	"govtrack/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PolicyHandler handles policy endpoints
type PolicyHandler struct {
	policySvc *service.PolicyService
	logger    *zap.Logger
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(policySvc *service.PolicyService, logger *zap.Logger) *PolicyHandler {
	return &PolicyHandler{policySvc: policySvc, logger: logger}
}

// List handles GET /v1/policies
//
//	@Summary	List policies
//	@Tags		policies
//	@Produce	json
//	@Param		level	query		string	false	"federal, state or local"
//	@Param		status	query		string	false	"proposed, passed, failed or vetoed"
//	@Param		tag		query		string	false	"Topic tag"
//	@Param		state	query		string	false	"Jurisdiction state"
//	@Param		limit	query		int		false	"Maximum results"
//	@Success	200		{object}	map[string][]model.Policy
//	@Router		/policies [get]
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.PolicyFilter{
		Level:  q.Get("level"),
		Status: q.Get("status"),
		Tag:    q.Get("tag"),
		State:  q.Get("state"),
		City:   q.Get("city"),
		Limit:  queryLimit(r),
	}

	policies, err := h.policySvc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"policies": policies})
}

// ByLocation handles GET /v1/policies/location/{state}
//
//	@Summary	Policies affecting a state
//	@Tags		policies
//	@Produce	json
//	@Param		state	path		string	true	"State code"
//	@Param		city	query		string	false	"City"
//	@Success	200		{object}	map[string][]model.Policy
//	@Router		/policies/location/{state} [get]
func (h *PolicyHandler) ByLocation(w http.ResponseWriter, r *http.Request) {
	state := mux.Vars(r)["state"]

	policies, err := h.policySvc.ByLocation(r.Context(), state, r.URL.Query().Get("city"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"policies": policies})
}

// Get handles GET /v1/policies/{id}
//
//	@Summary	Get a policy
//	@Tags		policies
//	@Produce	json
//	@Param		id	path		string	true	"Policy ID"
//	@Success	200	{object}	model.Policy
//	@Failure	404	{object}	ErrorResponse
//	@Router		/policies/{id} [get]
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policySvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, policy)
}

// Create handles POST /v1/policies
func (h *PolicyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var policy model.Policy
	if !decodeJSON(w, r, &policy) {
		return
	}

	id, err := h.policySvc.Create(r.Context(), &policy)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"policyId": id})
}

// Update handles PUT /v1/policies/{id}
func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var policy model.Policy
	if !decodeJSON(w, r, &policy) {
		return
	}
	policy.ID = mux.Vars(r)["id"]

	if err := h.policySvc.Update(r.Context(), &policy); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, policy)
}

// Delete handles DELETE /v1/policies/{id}
func (h *PolicyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.policySvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
