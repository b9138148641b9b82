package api

import (
	"net/http"

	"github.com/matslogic/matslogic/pkg/validation"
)

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listGraphs(w, r) }).
		Post(func() { s.createGraph(w, r) }).
		NotAllowed()
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := s.svc.ListGraphs(r.Context(), CallerID(r.Context()),
		queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		s.respondDomainError(w, err, "list graphs")
		return
	}
	s.respondJSON(w, http.StatusOK, graphs)
}

func (s *Server) createGraph(w http.ResponseWriter, r *http.Request) {
	var req validation.GraphRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	g, err := s.svc.CreateGraph(r.Context(), CallerID(r.Context()), req.Title)
	if err != nil {
		s.respondDomainError(w, err, "create graph")
		return
	}
	s.respondJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	graphID, ok := s.NewPathExtractor(w, r).ExtractID("/graphs/")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getGraph(w, r, graphID) }).
		Put(func() { s.renameGraph(w, r, graphID) }).
		Delete(func() { s.deleteGraph(w, r, graphID) }).
		NotAllowed()
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request, graphID int64) {
	g, err := s.svc.GetGraph(r.Context(), CallerID(r.Context()), graphID)
	if err != nil {
		s.respondDomainError(w, err, "get graph")
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}

func (s *Server) renameGraph(w http.ResponseWriter, r *http.Request, graphID int64) {
	var req validation.GraphRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	g, err := s.svc.RenameGraph(r.Context(), CallerID(r.Context()), graphID, req.Title)
	if err != nil {
		s.respondDomainError(w, err, "rename graph")
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}

func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request, graphID int64) {
	if err := s.svc.DeleteGraph(r.Context(), CallerID(r.Context()), graphID); err != nil {
		s.respondDomainError(w, err, "delete graph")
		return
	}
	s.respondJSON(w, http.StatusOK, deletedResponse{Deleted: graphID})
}
