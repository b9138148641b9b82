package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matslogic/matslogic/pkg/validation"
)

// requestDecoder decodes and validates request bodies.
// It provides a fluent interface for common request handling patterns.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// NewRequestDecoder creates a new request decoder for the given request.
func (s *Server) NewRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{
		r:      r,
		w:      w,
		server: s,
	}
}

// DecodeJSON decodes the request body into the provided struct.
// Returns the decoder for chaining.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := json.NewDecoder(rd.r.Body).Decode(v); err != nil {
		rd.err = fmt.Errorf("invalid request body: %w", err)
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// Validate runs tag validation over the decoded request struct.
// Returns the decoder for chaining.
func (rd *requestDecoder) Validate(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.Validate(v); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// RespondError sends the error response and returns true if there was an error.
// Returns false if no error occurred.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

// pathIDExtractor extracts ids and trailing segments from URL paths.
type pathIDExtractor struct {
	w      http.ResponseWriter
	server *Server
	path   string
}

// NewPathExtractor creates a new path extractor.
func (s *Server) NewPathExtractor(w http.ResponseWriter, r *http.Request) *pathIDExtractor {
	return &pathIDExtractor{
		w:      w,
		server: s,
		path:   r.URL.Path,
	}
}

// ExtractID extracts an int64 id from the path after the given prefix.
// Returns the id and true on success, or 0 and false after sending an error
// response.
func (pe *pathIDExtractor) ExtractID(prefix string) (int64, bool) {
	id, rest, ok := pe.split(prefix)
	if !ok || rest != "" {
		pe.server.respondError(pe.w, http.StatusBadRequest, "Invalid path")
		return 0, false
	}
	return id, true
}

// ExtractIDAndTail extracts an id plus the remaining path segment, e.g.
// "/nodes/7/technique" with prefix "/nodes/" yields (7, "technique").
func (pe *pathIDExtractor) ExtractIDAndTail(prefix string) (int64, string, bool) {
	id, rest, ok := pe.split(prefix)
	if !ok {
		pe.server.respondError(pe.w, http.StatusBadRequest, "Invalid path")
		return 0, "", false
	}
	return id, rest, true
}

func (pe *pathIDExtractor) split(prefix string) (int64, string, bool) {
	if !strings.HasPrefix(pe.path, prefix) {
		return 0, "", false
	}
	rest := strings.TrimSuffix(pe.path[len(prefix):], "/")

	idStr := rest
	tail := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		idStr, tail = rest[:i], rest[i+1:]
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, tail, true
}

// methodRouter routes requests based on HTTP method.
// Provides a cleaner alternative to switch statements for method routing.
type methodRouter struct {
	w       http.ResponseWriter
	r       *http.Request
	server  *Server
	handled bool
}

// NewMethodRouter creates a new method router.
func (s *Server) NewMethodRouter(w http.ResponseWriter, r *http.Request) *methodRouter {
	return &methodRouter{
		w:      w,
		r:      r,
		server: s,
	}
}

// Get handles GET requests with the provided handler.
func (mr *methodRouter) Get(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodGet {
		handler()
		mr.handled = true
	}
	return mr
}

// Post handles POST requests with the provided handler.
func (mr *methodRouter) Post(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPost {
		handler()
		mr.handled = true
	}
	return mr
}

// Put handles PUT requests with the provided handler.
func (mr *methodRouter) Put(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPut {
		handler()
		mr.handled = true
	}
	return mr
}

// Delete handles DELETE requests with the provided handler.
func (mr *methodRouter) Delete(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodDelete {
		handler()
		mr.handled = true
	}
	return mr
}

// NotAllowed sends a 405 response if no method matched.
func (mr *methodRouter) NotAllowed() {
	if !mr.handled {
		mr.server.respondError(mr.w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryInt64Ptr parses an optional int64 query parameter.
func queryInt64Ptr(r *http.Request, key string) *int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
