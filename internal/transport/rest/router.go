package rest

import (
	"net/http"

	_ "govtrack/internal/docs"
	"govtrack/internal/service"
	"govtrack/internal/transport/rest/handler"
	"govtrack/internal/transport/rest/middleware"
	"govtrack/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService           *service.AuthService
	PolicyService         *service.PolicyService
	RepresentativeService *service.RepresentativeService
	QuizService           *service.QuizService
	ProfileService        *service.ProfileService
	WSHub                 *ws.Hub
	Logger                *zap.Logger
	CORSOrigins           string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.Logger)
	policyHandler := handler.NewPolicyHandler(c.PolicyService, c.Logger)
	repHandler := handler.NewRepresentativeHandler(c.RepresentativeService, c.Logger)
	quizHandler := handler.NewQuizHandler(c.QuizService, c.Logger)
	profileHandler := handler.NewProfileHandler(c.ProfileService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.QuizService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS first so preflight requests never reach auth
	r.Use(corsMiddleware(c.CORSOrigins))
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(c.Logger))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/docs/swagger.json", swaggerDoc).Methods("GET")

	v1.HandleFunc("/policies", policyHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/policies/location/{state}", policyHandler.ByLocation).Methods("GET", "OPTIONS")
	v1.HandleFunc("/policies/{id}", policyHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/representatives", repHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/representatives/{id}", repHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/representatives/{id}/votes", repHandler.Votes).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quizzes", quizHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quizzes/{id}", quizHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quizzes/{id}/top", quizHandler.Top).Methods("GET", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/quizzes/{id}/stats", wsHandler.QuizStatsWS).Methods("GET")

	// Scoring works anonymously; a valid token saves the result
	scoreRoutes := v1.NewRoute().Subrouter()
	scoreRoutes.Use(authMW.OptionalUser)
	scoreRoutes.HandleFunc("/quizzes/{id}/score", quizHandler.Score).Methods("POST", "OPTIONS")

	// Signed-in routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/profile", profileHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/profile", profileHandler.Update).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/profile/saved/{kind}/{id}", profileHandler.Save).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/profile/saved/{kind}/{id}", profileHandler.Unsave).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/profile/results", profileHandler.Results).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/results/{id}", quizHandler.Result).Methods("GET", "OPTIONS")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/policies", policyHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/policies/{id}", policyHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/policies/{id}", policyHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/representatives", repHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/representatives/{id}", repHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/representatives/{id}", repHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{id}", quizHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{id}", quizHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{id}/stances", quizHandler.Stances).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{id}/stances/{repId}", quizHandler.SetStances).Methods("PUT", "OPTIONS")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"api documentation unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
