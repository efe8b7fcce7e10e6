package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/audit"
	"github.com/memberdir/apiserver/internal/db"
	"github.com/memberdir/apiserver/internal/handlers"
	"github.com/memberdir/apiserver/internal/mq"
	"github.com/memberdir/apiserver/internal/services"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/internal/token"
)

// Server wraps the HTTP server, router, and shared connections.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *audit.Broker
}

// New constructs a Server with its full dependency graph: database,
// repositories, services, token issuer, optional audit broker, routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	driver, _, err := db.DriverDSN(cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	var (
		broker    *audit.Broker
		publisher audit.Publisher = audit.Nop{}
	)
	if cfg.EventsBackend != "" {
		backend, err := mq.NewBackend(ctx, cfg)
		if err != nil {
			_ = dbConn.Close()
			return nil, err
		}
		broker = audit.NewBroker(backend, eventsChannel(cfg))
		publisher = broker
	}

	memberRepo := store.NewMemberRepository(dbConn, driver)
	credentialRepo := store.NewCredentialRepository(dbConn, driver)

	memberService := services.NewMemberService(memberRepo, publisher, cfg.DuplicatePolicy)
	authService := services.NewAuthService(credentialRepo)

	issuer := token.NewIssuer(jwtSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authHandler := handlers.NewAuthHandler(authService, issuer)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Post("/login", authHandler.Login)
	handlers.MemberRouter(router, memberService, issuer)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

func eventsChannel(cfg config.Config) string {
	if cfg.EventsBackend == mq.BackendPubSub {
		return cfg.PubSub.Topic
	}
	return cfg.RabbitMQ.Queue
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.broker != nil {
		_ = s.broker.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
