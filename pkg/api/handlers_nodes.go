package api

import (
	"net/http"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/validation"
)

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listNodes(w, r) }).
		Post(func() { s.createNode(w, r) }).
		NotAllowed()
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.svc.ListNodes(r.Context(), CallerID(r.Context()),
		queryInt64Ptr(r, "graph_id"),
		queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		s.respondDomainError(w, err, "list nodes")
		return
	}
	s.respondJSON(w, http.StatusOK, nodes)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req validation.NodeRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	n, err := s.svc.CreateNode(r.Context(), CallerID(r.Context()), req.GraphID, req.Name)
	if err != nil {
		s.respondDomainError(w, err, "create node")
		return
	}
	s.respondJSON(w, http.StatusCreated, n)
}

// handleNodeSubtree routes /nodes/{id}, /nodes/{id}/next, and
// /nodes/{id}/technique.
func (s *Server) handleNodeSubtree(w http.ResponseWriter, r *http.Request) {
	nodeID, tail, ok := s.NewPathExtractor(w, r).ExtractIDAndTail("/nodes/")
	if !ok {
		return
	}

	switch tail {
	case "":
		s.NewMethodRouter(w, r).
			Get(func() { s.getNode(w, r, nodeID) }).
			Delete(func() { s.deleteNode(w, r, nodeID) }).
			NotAllowed()
	case "next":
		s.NewMethodRouter(w, r).
			Get(func() { s.nextNodes(w, r, nodeID) }).
			NotAllowed()
	case "technique":
		s.handleTechnique(w, r, nodeID)
	default:
		s.respondError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request, nodeID int64) {
	n, err := s.svc.GetNode(r.Context(), CallerID(r.Context()), nodeID)
	if err != nil {
		s.respondDomainError(w, err, "get node")
		return
	}
	s.respondJSON(w, http.StatusOK, n)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request, nodeID int64) {
	if err := s.svc.DeleteNode(r.Context(), CallerID(r.Context()), nodeID); err != nil {
		s.respondDomainError(w, err, "delete node")
		return
	}
	s.respondJSON(w, http.StatusOK, deletedResponse{Deleted: nodeID})
}

// nextNodes answers the one-hop traversal query, optionally filtered by
// ?polarity=.
func (s *Server) nextNodes(w http.ResponseWriter, r *http.Request, nodeID int64) {
	var polarity *graph.Polarity
	if v := r.URL.Query().Get("polarity"); v != "" {
		p, err := graph.ParsePolarity(v)
		if err != nil {
			s.respondDomainError(w, err, "next nodes")
			return
		}
		polarity = &p
	}

	nodes, err := s.svc.NextNodes(r.Context(), CallerID(r.Context()), nodeID, polarity)
	if err != nil {
		s.respondDomainError(w, err, "next nodes")
		return
	}
	s.respondJSON(w, http.StatusOK, nodes)
}
