package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rebelbot/internal/handlers"
	"rebelbot/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.RequestLogger)
	r.Use(s.metrics.Instrument)
	r.Use(middlewares.NewCorsMiddleware(s.corsOrigins))

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler).Methods("GET")
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerChatRoutes(r)
	s.registerCatalogRoutes(r)
	s.registerFeedbackRoutes(r)

	return r
}

// public applies the per-IP rate limit.
func (s *Server) public(h http.HandlerFunc) http.Handler {
	return s.limiter.Limit(h)
}

// private requires a verified bearer token and rate-limits per user.
func (s *Server) private(h http.HandlerFunc) http.Handler {
	return middlewares.AuthMiddleware(s.verifier)(s.limiter.Limit(h))
}

func (s *Server) registerChatRoutes(r *mux.Router) {
	chh := handlers.NewChatHandler(s.chatService)
	r.Handle("/api/chat", s.private(chh.Chat)).Methods("POST", "OPTIONS")
}

func (s *Server) registerCatalogRoutes(r *mux.Router) {
	cth := handlers.NewCatalogHandler(s.catalogService)
	r.Handle("/api/resources", s.public(cth.ListResources)).Methods("GET", "OPTIONS")
	r.Handle("/api/resources/{id}", s.public(cth.GetResource)).Methods("GET", "OPTIONS")
	r.Handle("/api/events", s.public(cth.ListEvents)).Methods("GET", "OPTIONS")
	r.Handle("/api/events/{id}", s.public(cth.GetEvent)).Methods("GET", "OPTIONS")
	r.Handle("/api/clubs", s.public(cth.ListClubs)).Methods("GET", "OPTIONS")
	r.Handle("/api/clubs/{id}", s.public(cth.GetClub)).Methods("GET", "OPTIONS")
}

func (s *Server) registerFeedbackRoutes(r *mux.Router) {
	fh := handlers.NewFeedbackHandler(s.feedbackService)
	r.Handle("/api/feedback", s.private(fh.SubmitFeedback)).Methods("POST", "OPTIONS")
}
