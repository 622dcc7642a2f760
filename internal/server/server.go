package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"futures-review/internal/analysis"
	"futures-review/internal/models"
	"go.uber.org/zap"
)

// TradeStore is the persistence the API needs.
type TradeStore interface {
	Insert(ctx context.Context, in models.TradeInput) (models.InsertResult, error)
	Get(ctx context.Context, id int64) (models.TradeRecord, error)
	ListAll(ctx context.Context) ([]models.TradeRecord, error)
	ListBySymbol(ctx context.Context, symbol string) ([]models.TradeRecord, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// Server provides the HTTP interface the journal front-end talks to.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// New creates a server listening on port and serving the journal API.
func New(port int, store TradeStore, logger *zap.Logger) *Server {
	logger = logger.Named("api-server")
	handler := NewAPIHandler(logger, store, analysis.NewEngine(store, logger))

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
