package procedure

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pzepeda90/MedClock-sub002/pkg/config"
	"github.com/pzepeda90/MedClock-sub002/pkg/logger"
)

// Service exposes the procedure record store and calendar projector over
// HTTP. All domain decisions live in the store, the guard and the
// projector; handlers only translate between HTTP and those calls.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	store     *Store
	projector *Projector
	server    *http.Server
}

// New creates a new procedure service
func New(cfg *config.Config, log *logger.Logger) *Service {
	store := NewStore(log)
	projector := NewProjector(log)

	return &Service{
		config:    cfg,
		logger:    log,
		store:     store,
		projector: projector,
	}
}

// Store returns the underlying record store, the only sanctioned
// mutation path for embedding callers.
func (s *Service) Store() *Store {
	return s.store
}

// Projector returns the calendar event projector
func (s *Service) Projector() *Projector {
	return s.projector
}

// Start starts the procedure service HTTP server
func (s *Service) Start(addr string) error {
	router := mux.NewRouter()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting Procedure Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the procedure service
func (s *Service) Stop() error {
	if s.server != nil {
		s.logger.Info("Stopping Procedure Service")
		return s.server.Close()
	}
	return nil
}
