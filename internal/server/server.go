package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"rebelbot/internal/config"
	"rebelbot/internal/database"
	"rebelbot/internal/middlewares"
	"rebelbot/internal/repositories"
	"rebelbot/internal/services"
)

type Server struct {
	port            int
	httpServer      *http.Server
	db              database.Service
	verifier        services.TokenVerifier
	chatService     *services.ChatService
	catalogService  services.CatalogService
	feedbackService services.FeedbackService
	limiter         *middlewares.RateLimiter
	metrics         *middlewares.PrometheusMiddleware
	corsOrigins     []string
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	resourceRepo := repositories.NewResourceRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	catalogService := services.NewCatalogService(resourceRepo, eventRepo, clubRepo)

	var completion services.CompletionClient
	if cfg.CompletionEnabled() {
		llm, err := services.NewLLM(ctx, cfg)
		if err != nil {
			return nil, err
		}
		completion = services.NewCompletionClient(llm, cfg.LLMTimeout)
		log.Info().Str("provider", cfg.LLMProvider).Str("model", cfg.LLMModel).Dur("timeout", cfg.LLMTimeout).Msg("Completion provider configured")
	} else {
		log.Warn().Msg("LLM_API_KEY not set, chat will answer with keyword matching")
	}

	var notifier services.Notifier
	if cfg.MailEnabled() {
		notifier = services.NewEmailNotifier(cfg)
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, every authenticated request will be rejected")
	}

	s := &Server{
		port:     cfg.Port,
		db:       db,
		verifier: services.NewTokenVerifier([]byte(cfg.JWTSecret)),
		chatService: services.NewChatService(
			services.NewContextService(resourceRepo, eventRepo, clubRepo),
			completion,
			services.NewKeywordResponder(catalogService),
		),
		catalogService:  catalogService,
		feedbackService: services.NewFeedbackService(feedbackRepo, notifier),
		limiter:         middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		metrics:         middlewares.NewPrometheusMiddleware(prometheus.DefaultRegisterer),
		corsOrigins:     cfg.AllowedOrigins,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
	}

	return s, nil
}

// Start serves HTTP until the server is shut down. Idle rate-limit buckets are
// evicted in the background while ctx is alive.
func (s *Server) Start(ctx context.Context) error {
	go s.limiter.CleanupVisitors(ctx)

	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
