package api

import (
	"net/http"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/validation"
)

// handleTechnique serves the single technique slot under a node.
func (s *Server) handleTechnique(w http.ResponseWriter, r *http.Request, nodeID int64) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getTechnique(w, r, nodeID) }).
		Post(func() { s.createTechnique(w, r, nodeID) }).
		Put(func() { s.updateTechnique(w, r, nodeID) }).
		Delete(func() { s.deleteTechnique(w, r, nodeID) }).
		NotAllowed()
}

func (s *Server) getTechnique(w http.ResponseWriter, r *http.Request, nodeID int64) {
	t, err := s.svc.GetTechnique(r.Context(), CallerID(r.Context()), nodeID)
	if err != nil {
		s.respondDomainError(w, err, "get technique")
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

func (s *Server) createTechnique(w http.ResponseWriter, r *http.Request, nodeID int64) {
	var req validation.TechniqueRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	t, err := s.svc.CreateTechnique(r.Context(), CallerID(r.Context()), nodeID, req.VideoURL, req.Steps)
	if err != nil {
		s.respondDomainError(w, err, "create technique")
		return
	}
	s.respondJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTechnique(w http.ResponseWriter, r *http.Request, nodeID int64) {
	var req validation.TechniqueUpdateRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	patch := graph.TechniquePatch{VideoURL: req.VideoURL, Steps: req.Steps}
	t, err := s.svc.UpdateTechnique(r.Context(), CallerID(r.Context()), nodeID, patch)
	if err != nil {
		s.respondDomainError(w, err, "update technique")
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTechnique(w http.ResponseWriter, r *http.Request, nodeID int64) {
	if err := s.svc.DeleteTechnique(r.Context(), CallerID(r.Context()), nodeID); err != nil {
		s.respondDomainError(w, err, "delete technique")
		return
	}
	s.respondJSON(w, http.StatusOK, deletedResponse{Deleted: nodeID})
}
