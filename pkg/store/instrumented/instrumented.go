// Package instrumented decorates a graph.Store with Prometheus metrics.
// Every call is recorded with its operation name, outcome, and latency.
package instrumented

import (
	"context"
	"time"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/metrics"
)

// Store wraps another graph.Store and records one observation per call.
type Store struct {
	next graph.Store
	reg  *metrics.Registry
}

// Wrap decorates next with metrics recording.
func Wrap(next graph.Store, reg *metrics.Registry) *Store {
	return &Store{next: next, reg: reg}
}

func (s *Store) record(op string, start time.Time, err error) {
	status := "ok"
	switch {
	case err == nil:
	case graph.IsNotFound(err):
		status = "not_found"
	case graph.IsConflict(err):
		status = "conflict"
	default:
		status = "error"
	}
	s.reg.RecordStoreOperation(op, status, time.Since(start))
}

func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*graph.User, error) {
	start := time.Now()
	u, err := s.next.CreateUser(ctx, name, email, passwordHash)
	s.record("create_user", start, err)
	return u, err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*graph.User, error) {
	start := time.Now()
	u, err := s.next.GetUser(ctx, id)
	s.record("get_user", start, err)
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*graph.User, error) {
	start := time.Now()
	u, err := s.next.GetUserByEmail(ctx, email)
	s.record("get_user_by_email", start, err)
	return u, err
}

func (s *Store) CreateGraph(ctx context.Context, ownerID int64, title string) (*graph.Graph, error) {
	start := time.Now()
	g, err := s.next.CreateGraph(ctx, ownerID, title)
	s.record("create_graph", start, err)
	return g, err
}

func (s *Store) GetGraph(ctx context.Context, id int64) (*graph.Graph, error) {
	start := time.Now()
	g, err := s.next.GetGraph(ctx, id)
	s.record("get_graph", start, err)
	return g, err
}

func (s *Store) ListGraphsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*graph.Graph, error) {
	start := time.Now()
	graphs, err := s.next.ListGraphsByOwner(ctx, ownerID, limit, offset)
	s.record("list_graphs", start, err)
	return graphs, err
}

func (s *Store) UpdateGraphTitle(ctx context.Context, id int64, title string) error {
	start := time.Now()
	err := s.next.UpdateGraphTitle(ctx, id, title)
	s.record("update_graph_title", start, err)
	return err
}

func (s *Store) DeleteGraphCascade(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.DeleteGraphCascade(ctx, id)
	s.record("delete_graph_cascade", start, err)
	return err
}

func (s *Store) CreateNode(ctx context.Context, graphID int64, name string) (*graph.Node, error) {
	start := time.Now()
	n, err := s.next.CreateNode(ctx, graphID, name)
	s.record("create_node", start, err)
	return n, err
}

func (s *Store) GetNode(ctx context.Context, id int64) (*graph.Node, error) {
	start := time.Now()
	n, err := s.next.GetNode(ctx, id)
	s.record("get_node", start, err)
	return n, err
}

func (s *Store) ListNodesByOwner(ctx context.Context, ownerID int64, graphID *int64, limit, offset int) ([]*graph.Node, error) {
	start := time.Now()
	nodes, err := s.next.ListNodesByOwner(ctx, ownerID, graphID, limit, offset)
	s.record("list_nodes", start, err)
	return nodes, err
}

func (s *Store) DeleteNodeCascade(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.DeleteNodeCascade(ctx, id)
	s.record("delete_node_cascade", start, err)
	return err
}

func (s *Store) CreateEdge(ctx context.Context, e *graph.Edge) (*graph.Edge, error) {
	start := time.Now()
	created, err := s.next.CreateEdge(ctx, e)
	s.record("create_edge", start, err)
	return created, err
}

func (s *Store) GetEdge(ctx context.Context, id int64) (*graph.Edge, error) {
	start := time.Now()
	e, err := s.next.GetEdge(ctx, id)
	s.record("get_edge", start, err)
	return e, err
}

func (s *Store) UpdateEdge(ctx context.Context, id int64, patch graph.EdgePatch) (*graph.Edge, error) {
	start := time.Now()
	e, err := s.next.UpdateEdge(ctx, id, patch)
	s.record("update_edge", start, err)
	return e, err
}

func (s *Store) DeleteEdge(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.DeleteEdge(ctx, id)
	s.record("delete_edge", start, err)
	return err
}

func (s *Store) ListEdgesByOwner(ctx context.Context, ownerID int64, filter graph.EdgeFilter, limit, offset int) ([]*graph.Edge, error) {
	start := time.Now()
	edges, err := s.next.ListEdgesByOwner(ctx, ownerID, filter, limit, offset)
	s.record("list_edges", start, err)
	return edges, err
}

func (s *Store) ListOutgoingEdges(ctx context.Context, fromNodeID int64, polarity *graph.Polarity) ([]*graph.Edge, error) {
	start := time.Now()
	edges, err := s.next.ListOutgoingEdges(ctx, fromNodeID, polarity)
	s.record("list_outgoing_edges", start, err)
	return edges, err
}

func (s *Store) CreateTechnique(ctx context.Context, nodeID int64, videoURL, steps string) (*graph.Technique, error) {
	start := time.Now()
	t, err := s.next.CreateTechnique(ctx, nodeID, videoURL, steps)
	s.record("create_technique", start, err)
	return t, err
}

func (s *Store) GetTechniqueByNode(ctx context.Context, nodeID int64) (*graph.Technique, error) {
	start := time.Now()
	t, err := s.next.GetTechniqueByNode(ctx, nodeID)
	s.record("get_technique", start, err)
	return t, err
}

func (s *Store) UpdateTechnique(ctx context.Context, nodeID int64, patch graph.TechniquePatch) (*graph.Technique, error) {
	start := time.Now()
	t, err := s.next.UpdateTechnique(ctx, nodeID, patch)
	s.record("update_technique", start, err)
	return t, err
}

func (s *Store) DeleteTechniqueByNode(ctx context.Context, nodeID int64) error {
	start := time.Now()
	err := s.next.DeleteTechniqueByNode(ctx, nodeID)
	s.record("delete_technique", start, err)
	return err
}
