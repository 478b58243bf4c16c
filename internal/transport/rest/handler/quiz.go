package handler

import (
	"net/http"

	"govtrack/internal/model"
	"govtrack/internal/service"
	"govtrack/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// QuizHandler handles quiz, scoring and result endpoints
type QuizHandler struct {
	quizSvc *service.QuizService
	logger  *zap.Logger
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc, logger: logger}
}

// List handles GET /v1/quizzes
//
//	@Summary	List quizzes
//	@Tags		quizzes
//	@Produce	json
//	@Success	200	{object}	map[string][]model.Quiz
//	@Router		/quizzes [get]
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

// Get handles GET /v1/quizzes/{id}
//
//	@Summary	Get a quiz
//	@Tags		quizzes
//	@Produce	json
//	@Param		id	path		string	true	"Quiz ID"
//	@Success	200	{object}	model.Quiz
//	@Failure	404	{object}	ErrorResponse
//	@Router		/quizzes/{id} [get]
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

// Score handles POST /v1/quizzes/{id}/score. Signed-in callers get the
// result saved to their history.
//
//	@Summary	Score answers against every representative
//	@Tags		quizzes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Quiz ID"
//	@Param		body	body		model.SubmitQuizRequest	true	"Answers"
//	@Success	200		{object}	model.QuizResult
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/quizzes/{id}/score [post]
func (h *QuizHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.quizSvc.Submit(r.Context(), userID, mux.Vars(r)["id"], req.Responses)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Top handles GET /v1/quizzes/{id}/top
//
//	@Summary	Most common top matches
//	@Tags		quizzes
//	@Produce	json
//	@Param		id		path		string	true	"Quiz ID"
//	@Param		limit	query		int		false	"Board size"
//	@Success	200		{object}	map[string][]model.MatchCount
//	@Router		/quizzes/{id}/top [get]
func (h *QuizHandler) Top(w http.ResponseWriter, r *http.Request) {
	board, err := h.quizSvc.TopMatches(r.Context(), mux.Vars(r)["id"], int(queryLimit(r)))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"topMatches": board})
}

// Result handles GET /v1/results/{id}
//
//	@Summary	A saved quiz result
//	@Tags		quizzes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Result ID"
//	@Success	200	{object}	model.QuizResult
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/results/{id} [get]
func (h *QuizHandler) Result(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.quizSvc.Result(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /v1/quizzes
//
//	@Summary	Create a quiz
//	@Tags		quizzes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		model.Quiz	true	"Quiz"
//	@Success	201		{object}	map[string]string
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/quizzes [post]
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var quiz model.Quiz
	if !decodeJSON(w, r, &quiz) {
		return
	}

	id, err := h.quizSvc.Create(r.Context(), &quiz)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"quizId": id})
}

// Update handles PUT /v1/quizzes/{id}
//
//	@Summary	Replace a quiz
//	@Tags		quizzes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string		true	"Quiz ID"
//	@Param		body	body		model.Quiz	true	"Quiz"
//	@Success	200		{object}	model.Quiz
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/quizzes/{id} [put]
func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	var quiz model.Quiz
	if !decodeJSON(w, r, &quiz) {
		return
	}
	quiz.ID = mux.Vars(r)["id"]

	if err := h.quizSvc.Update(r.Context(), &quiz); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

// Delete handles DELETE /v1/quizzes/{id}
//
//	@Summary	Delete a quiz and its stances
//	@Tags		quizzes
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Quiz ID"
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/quizzes/{id} [delete]
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.quizSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stances handles GET /v1/quizzes/{id}/stances
//
//	@Summary	Every representative's stances on a quiz
//	@Tags		quizzes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Quiz ID"
//	@Success	200	{object}	map[string][]model.Stance
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/quizzes/{id}/stances [get]
func (h *QuizHandler) Stances(w http.ResponseWriter, r *http.Request) {
	stances, err := h.quizSvc.Stances(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stances": stances})
}

// SetStances handles PUT /v1/quizzes/{id}/stances/{repId}
//
//	@Summary	Replace a representative's stances on a quiz
//	@Tags		quizzes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Quiz ID"
//	@Param		repId	path		string					true	"Representative ID"
//	@Param		body	body		model.SetStancesRequest	true	"Stances"
//	@Success	200		{object}	map[string]int
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/quizzes/{id}/stances/{repId} [put]
func (h *QuizHandler) SetStances(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req model.SetStancesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.quizSvc.SetStances(r.Context(), vars["id"], vars["repId"], req.Stances); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"stances": len(req.Stances)})
}
