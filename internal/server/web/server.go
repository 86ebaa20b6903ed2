package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/inovacc/todo/internal/export"
	"github.com/inovacc/todo/internal/service"
	"github.com/inovacc/todo/internal/store"
)

//go:embed static/*
var staticFS embed.FS

// Config holds the web server configuration
type Config struct {
	Port     int
	Host     string
	Logger   *slog.Logger
	Location *time.Location
}

// DefaultConfig returns the default web server configuration
func DefaultConfig() Config {
	return Config{
		Port:     3000,
		Host:     "127.0.0.1",
		Logger:   slog.New(slog.DiscardHandler),
		Location: time.Local,
	}
}

// Server serves the todo API and the embedded UI
type Server struct {
	httpServer *http.Server
	config     Config
	logger     *slog.Logger
	store      store.Store
	todos      *service.TodoService
	project    *service.ProjectService
	exporter   *export.Exporter
	schemas    *schemaSet
}

// New creates a new web server over st
func New(config Config, st store.Store) (*Server, error) {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	if config.Location == nil {
		config.Location = time.Local
	}

	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schemas: %w", err)
	}

	todos := service.NewTodoService(st)
	project := service.NewProjectService(st)

	return &Server{
		config:  config,
		logger:  config.Logger,
		store:   st,
		todos:   todos,
		project: project,
		exporter: export.New(todos, project,
			export.WithLocation(config.Location),
			export.WithLogger(config.Logger),
		),
		schemas: schemas,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	return s.requestID(s.accessLog(s.recoverer(mux)))
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := s.Addr()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.logger.Info("server listening", "url", "http://"+listener.Addr().String())

	errCh := make(chan error, 1)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	return s.Shutdown(context.Background()) //nolint:contextcheck // parent context cancelled, use background for shutdown
}

// Shutdown gracefully shuts down the web server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")

	return s.httpServer.Shutdown(shutdownCtx)
}
