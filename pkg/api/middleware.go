package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matslogic/matslogic/pkg/auth"
	"github.com/matslogic/matslogic/pkg/logging"
)

// Context keys for values attached by middleware
type contextKey string

const (
	claimsContextKey    contextKey = "claims"
	requestIDContextKey contextKey = "request_id"
)

// CallerID extracts the authenticated caller id from a request context.
// Returns 0 when the request is unauthenticated.
func CallerID(ctx context.Context) int64 {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// requireAuth validates the bearer token and attaches the resolved claims to
// the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			s.respondError(w, http.StatusUnauthorized, "Missing authentication (Bearer token required)")
			return
		}

		claims, err := s.jwtManager.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			s.log.Debug("token validation failed", logging.Err(err))
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Verify the token's subject still exists
		if _, err := s.users.GetUser(r.Context(), claims.UserID); err != nil {
			s.respondError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requestIDMiddleware assigns each request a uuid, echoed in the
// X-Request-ID response header.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.HTTPRequestsInFlight.Inc()
		defer s.metrics.HTTPRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.metrics.RecordHTTPRequest(r.Method, routePattern(r.URL.Path), strconv.Itoa(rec.status), time.Since(start))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		requestID, _ := r.Context().Value(requestIDContextKey).(string)
		s.log.Info("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Latency(time.Since(start)),
			logging.String("request_id", requestID),
		)
	})
}

// routePattern collapses ids out of paths so metric labels stay
// low-cardinality: "/nodes/7/technique" becomes "/nodes/{id}/technique".
func routePattern(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if _, err := strconv.ParseInt(part, 10, 64); err == nil && part != "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
