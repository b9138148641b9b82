package api

import (
	"net/http"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/validation"
)

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listEdges(w, r) }).
		Post(func() { s.createEdge(w, r) }).
		NotAllowed()
}

func (s *Server) listEdges(w http.ResponseWriter, r *http.Request) {
	filter := graph.EdgeFilter{
		GraphID:    queryInt64Ptr(r, "graph_id"),
		FromNodeID: queryInt64Ptr(r, "from_node_id"),
		ToNodeID:   queryInt64Ptr(r, "to_node_id"),
	}
	if v := r.URL.Query().Get("polarity"); v != "" {
		p, err := graph.ParsePolarity(v)
		if err != nil {
			s.respondDomainError(w, err, "list edges")
			return
		}
		filter.Polarity = &p
	}

	edges, err := s.svc.ListEdges(r.Context(), CallerID(r.Context()), filter,
		queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		s.respondDomainError(w, err, "list edges")
		return
	}
	s.respondJSON(w, http.StatusOK, edges)
}

func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var req validation.EdgeRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	e, err := s.svc.CreateEdge(r.Context(), CallerID(r.Context()),
		req.FromNodeID, req.ToNodeID, graph.Polarity(req.Polarity), req.Note)
	if err != nil {
		s.respondDomainError(w, err, "create edge")
		return
	}
	s.respondJSON(w, http.StatusCreated, e)
}

func (s *Server) handleEdge(w http.ResponseWriter, r *http.Request) {
	edgeID, ok := s.NewPathExtractor(w, r).ExtractID("/edges/")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getEdge(w, r, edgeID) }).
		Put(func() { s.updateEdge(w, r, edgeID) }).
		Delete(func() { s.deleteEdge(w, r, edgeID) }).
		NotAllowed()
}

func (s *Server) getEdge(w http.ResponseWriter, r *http.Request, edgeID int64) {
	e, err := s.svc.GetEdge(r.Context(), CallerID(r.Context()), edgeID)
	if err != nil {
		s.respondDomainError(w, err, "get edge")
		return
	}
	s.respondJSON(w, http.StatusOK, e)
}

func (s *Server) updateEdge(w http.ResponseWriter, r *http.Request, edgeID int64) {
	var req validation.EdgeUpdateRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	patch := graph.EdgePatch{Note: req.Note, Color: req.Color, Label: req.Label}
	if req.Polarity != nil {
		p := graph.Polarity(*req.Polarity)
		patch.Polarity = &p
	}

	e, err := s.svc.UpdateEdge(r.Context(), CallerID(r.Context()), edgeID, patch)
	if err != nil {
		s.respondDomainError(w, err, "update edge")
		return
	}
	s.respondJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request, edgeID int64) {
	if err := s.svc.DeleteEdge(r.Context(), CallerID(r.Context()), edgeID); err != nil {
		s.respondDomainError(w, err, "delete edge")
		return
	}
	s.respondJSON(w, http.StatusOK, deletedResponse{Deleted: edgeID})
}
