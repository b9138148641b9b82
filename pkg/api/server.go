// Package api exposes the progression model over HTTP. Handlers translate
// JSON requests into service calls and domain error kinds into status codes;
// all domain rules live below this layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/matslogic/matslogic/pkg/auth"
	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/graphql"
	"github.com/matslogic/matslogic/pkg/logging"
	"github.com/matslogic/matslogic/pkg/metrics"
)

// Server routes HTTP requests to the domain service.
type Server struct {
	svc            *graph.Service
	users          *auth.Service
	jwtManager     *auth.JWTManager
	metrics        *metrics.Registry
	log            logging.Logger
	graphqlHandler *graphql.Handler
	startTime      time.Time
	version        string
	addr           string
}

// NewServer creates the API server.
func NewServer(addr string, svc *graph.Service, users *auth.Service, jwtManager *auth.JWTManager, reg *metrics.Registry, log logging.Logger) *Server {
	s := &Server{
		svc:        svc,
		users:      users,
		jwtManager: jwtManager,
		metrics:    reg,
		log:        log,
		startTime:  time.Now(),
		version:    "1.0.0",
		addr:       addr,
	}

	schema, err := graphql.NewSchema(svc)
	if err != nil {
		log.Warn("failed to build GraphQL schema", logging.Err(err))
	} else {
		s.graphqlHandler = graphql.NewHandler(schema)
	}

	return s
}

// Routes builds the full handler chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("/auth/register", s.handleRegister)
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/auth/refresh", s.handleRefresh)

	mux.HandleFunc("/graphs", s.requireAuth(s.handleGraphs))
	mux.HandleFunc("/graphs/", s.requireAuth(s.handleGraph))

	mux.HandleFunc("/nodes", s.requireAuth(s.handleNodes))
	mux.HandleFunc("/nodes/", s.requireAuth(s.handleNodeSubtree))

	mux.HandleFunc("/edges", s.requireAuth(s.handleEdges))
	mux.HandleFunc("/edges/", s.requireAuth(s.handleEdge))

	mux.HandleFunc("/graphql", s.requireAuth(s.handleGraphQL))

	return s.requestIDMiddleware(s.metricsMiddleware(s.loggingMiddleware(mux)))
}

// Start runs the HTTP server with production timeouts.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.log.Info("server listening", logging.String("addr", s.addr))
	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Uptime:  time.Since(s.startTime).String(),
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if s.graphqlHandler == nil {
		s.respondError(w, http.StatusServiceUnavailable, "GraphQL endpoint not available")
		return
	}
	ctx := graphql.WithCallerID(r.Context(), CallerID(r.Context()))
	s.graphqlHandler.ServeHTTP(w, r.WithContext(ctx))
}

// Helper methods

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", logging.Err(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondDomainError maps domain error kinds to HTTP statuses. Internal
// detail is logged but never exposed to the client.
func (s *Server) respondDomainError(w http.ResponseWriter, err error, operation string) {
	switch {
	case graph.IsNotFound(err):
		s.respondError(w, http.StatusNotFound, err.Error())
	case graph.IsConflict(err):
		s.respondError(w, http.StatusConflict, err.Error())
	case graph.IsInvalidArgument(err):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrUserExists):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrEmptyName),
		errors.Is(err, auth.ErrEmptyPassword),
		errors.Is(err, auth.ErrWeakPassword):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("internal error", logging.Op(operation), logging.Err(err))
		s.respondError(w, http.StatusInternalServerError, operation+" failed")
	}
}
