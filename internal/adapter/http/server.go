package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxRequestBytes caps the create-simulation request body.
const maxRequestBytes = 64 << 10

// SimulationService is the application surface exposed over HTTP.
type SimulationService interface {
	sharedobs.ReadinessChecker
	ListPanelTypes(ctx context.Context) ([]domain.PanelType, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListSimulations(ctx context.Context) ([]domain.Simulation, error)
	CreateSimulation(ctx context.Context, in domain.SimulationInput) (domain.Simulation, error)
}

// Server exposes the JSON API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        SimulationService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api routes and /healthz,
// /readyz, and /metrics. allowedOrigins configures CORS for the API.
func NewServer(addr string, svc SimulationService, allowedOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/panel-types", s.handleListPanelTypes)
	mux.HandleFunc("GET /api/locations", s.handleListLocations)
	mux.HandleFunc("GET /api/simulations", s.handleListSimulations)
	mux.HandleFunc("POST /api/simulations", s.handleCreateSimulation)

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      recovery(cors(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleListPanelTypes(w http.ResponseWriter, r *http.Request) {
	panels, err := s.svc.ListPanelTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, panels)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := s.svc.ListLocations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, locs)
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	sims, err := s.svc.ListSimulations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, sims)
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var in domain.SimulationInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&in); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Code: codeMalformedBody, Message: "request body must be a JSON object: " + err.Error()})
		return
	}

	sim, err := s.svc.CreateSimulation(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, sim)
}
