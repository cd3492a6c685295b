// Package api implements app.Runner for the API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/blitzfun/blitz-api/pkg/app/http"
	coinservice "github.com/blitzfun/blitz-api/pkg/coins/service"
	"github.com/blitzfun/blitz-api/pkg/coins/zora"
	"github.com/blitzfun/blitz-api/pkg/config"
	"github.com/blitzfun/blitz-api/pkg/pgutil"
	waitlistservice "github.com/blitzfun/blitz-api/pkg/waitlist/service"
	"github.com/blitzfun/blitz-api/pkg/waitlistcard"
	"github.com/blitzfun/blitz-api/pkg/waitliststore"
)

const defaultRequestTimeout = 60

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()

	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	store := waitliststore.NewStore(db)
	waitlistSvc := waitlistservice.NewLog(waitlistservice.NewService(store, logger), logger)

	zoraClient := zora.NewClient(&cfg.Zora, logger)
	coinSvc := coinservice.NewLog(
		coinservice.NewService(zoraClient, cfg.Zora.SwapPageSize, logger),
		logger,
	)

	cardRenderer, err := waitlistcard.NewRenderer(cfg.Card.AppName, cfg.Card.IconURL)
	if err != nil {
		return fmt.Errorf("setup card renderer: %w", err)
	}

	router := s.setupRouter(waitlistSvc, coinSvc, cardRenderer, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(
	waitlistSvc waitlistservice.Service,
	coinSvc coinservice.Service,
	cardRenderer *waitlistcard.Renderer,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	waitlistservice.RegisterRoutes(r, waitlistSvc, logger)
	waitlistcard.RegisterRoutes(r, waitlistSvc, cardRenderer, logger)
	coinservice.RegisterRoutes(r, coinSvc, s.cfg.Zora.ChainID, logger)

	return r
}
