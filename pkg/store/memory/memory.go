// Package memory provides an in-process implementation of the storage
// boundary. A single mutex serializes every operation, so multi-step
// cascades and uniqueness checks are atomic by construction. It backs tests
// and single-process deployments without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/matslogic/matslogic/pkg/graph"
)

// Store is an in-memory graph.Store.
type Store struct {
	mu sync.RWMutex

	users      map[int64]*graph.User
	emailIndex map[string]int64
	graphs     map[int64]*graph.Graph
	nodes      map[int64]*graph.Node
	edges      map[int64]*graph.Edge
	techniques map[int64]*graph.Technique // keyed by technique id
	nodeTech   map[int64]int64            // node id -> technique id

	nextUserID      int64
	nextGraphID     int64
	nextNodeID      int64
	nextEdgeID      int64
	nextTechniqueID int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:      make(map[int64]*graph.User),
		emailIndex: make(map[string]int64),
		graphs:     make(map[int64]*graph.Graph),
		nodes:      make(map[int64]*graph.Node),
		edges:      make(map[int64]*graph.Edge),
		techniques: make(map[int64]*graph.Technique),
		nodeTech:   make(map[int64]int64),
	}
}

var _ graph.Store = (*Store)(nil)

// Users

func (s *Store) CreateUser(_ context.Context, name, email, passwordHash string) (*graph.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailIndex[email]; exists {
		return nil, fmt.Errorf("user %s: %w", email, graph.ErrConflict)
	}

	s.nextUserID++
	u := &graph.User{
		ID:           s.nextUserID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UnixMilli(),
	}
	s.users[u.ID] = u
	s.emailIndex[email] = u.ID

	out := *u
	return &out, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*graph.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("user %d: %w", id, graph.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*graph.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.emailIndex[email]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", email, graph.ErrNotFound)
	}
	out := *s.users[id]
	return &out, nil
}

// Graphs

func (s *Store) CreateGraph(_ context.Context, ownerID int64, title string) (*graph.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGraphID++
	g := &graph.Graph{ID: s.nextGraphID, Title: title, OwnerID: ownerID}
	s.graphs[g.ID] = g

	out := *g
	return &out, nil
}

func (s *Store) GetGraph(_ context.Context, id int64) (*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.graphs[id]
	if !exists {
		return nil, fmt.Errorf("graph %d: %w", id, graph.ErrNotFound)
	}
	out := *g
	return &out, nil
}

func (s *Store) ListGraphsByOwner(_ context.Context, ownerID int64, limit, offset int) ([]*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*graph.Graph, 0)
	for _, g := range s.graphs {
		if g.OwnerID == ownerID {
			out := *g
			matched = append(matched, &out)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, limit, offset), nil
}

func (s *Store) UpdateGraphTitle(_ context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, exists := s.graphs[id]
	if !exists {
		return fmt.Errorf("graph %d: %w", id, graph.ErrNotFound)
	}
	g.Title = title
	return nil
}

func (s *Store) DeleteGraphCascade(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.graphs[id]; !exists {
		return fmt.Errorf("graph %d: %w", id, graph.ErrNotFound)
	}

	for nodeID, n := range s.nodes {
		if n.GraphID != id {
			continue
		}
		s.deleteNodeLocked(nodeID)
	}
	delete(s.graphs, id)
	return nil
}

// Nodes

func (s *Store) CreateNode(_ context.Context, graphID int64, name string) (*graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.graphs[graphID]; !exists {
		return nil, fmt.Errorf("graph %d: %w", graphID, graph.ErrNotFound)
	}

	s.nextNodeID++
	n := &graph.Node{ID: s.nextNodeID, Name: name, GraphID: graphID}
	s.nodes[n.ID] = n

	out := *n
	return &out, nil
}

func (s *Store) GetNode(_ context.Context, id int64) (*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, exists := s.nodes[id]
	if !exists {
		return nil, fmt.Errorf("node %d: %w", id, graph.ErrNotFound)
	}
	out := *n
	return &out, nil
}

func (s *Store) ListNodesByOwner(_ context.Context, ownerID int64, graphID *int64, limit, offset int) ([]*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*graph.Node, 0)
	for _, n := range s.nodes {
		g, exists := s.graphs[n.GraphID]
		if !exists || g.OwnerID != ownerID {
			continue
		}
		if graphID != nil && n.GraphID != *graphID {
			continue
		}
		out := *n
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, limit, offset), nil
}

func (s *Store) DeleteNodeCascade(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		return fmt.Errorf("node %d: %w", id, graph.ErrNotFound)
	}
	s.deleteNodeLocked(id)
	return nil
}

// deleteNodeLocked removes a node, its technique, and incident edges.
// Caller holds the write lock, so the cascade is atomic.
func (s *Store) deleteNodeLocked(id int64) {
	if techID, exists := s.nodeTech[id]; exists {
		delete(s.techniques, techID)
		delete(s.nodeTech, id)
	}
	for edgeID, e := range s.edges {
		if e.FromNodeID == id || e.ToNodeID == id {
			delete(s.edges, edgeID)
		}
	}
	delete(s.nodes, id)
}

// Edges

func (s *Store) CreateEdge(_ context.Context, e *graph.Edge) (*graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.edges {
		if existing.FromNodeID == e.FromNodeID &&
			existing.ToNodeID == e.ToNodeID &&
			existing.Polarity == e.Polarity {
			return nil, fmt.Errorf("edge (%d,%d,%s): %w", e.FromNodeID, e.ToNodeID, e.Polarity, graph.ErrConflict)
		}
	}

	s.nextEdgeID++
	stored := *e
	stored.ID = s.nextEdgeID
	s.edges[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *Store) GetEdge(_ context.Context, id int64) (*graph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.edges[id]
	if !exists {
		return nil, fmt.Errorf("edge %d: %w", id, graph.ErrNotFound)
	}
	out := *e
	return &out, nil
}

func (s *Store) UpdateEdge(_ context.Context, id int64, patch graph.EdgePatch) (*graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.edges[id]
	if !exists {
		return nil, fmt.Errorf("edge %d: %w", id, graph.ErrNotFound)
	}

	if patch.Polarity != nil && *patch.Polarity != e.Polarity {
		for otherID, other := range s.edges {
			if otherID == id {
				continue
			}
			if other.FromNodeID == e.FromNodeID &&
				other.ToNodeID == e.ToNodeID &&
				other.Polarity == *patch.Polarity {
				return nil, fmt.Errorf("edge (%d,%d,%s): %w", e.FromNodeID, e.ToNodeID, *patch.Polarity, graph.ErrConflict)
			}
		}
		e.Polarity = *patch.Polarity
	}
	if patch.Note != nil {
		e.Note = *patch.Note
	}
	if patch.Color != nil {
		e.Color = *patch.Color
	}
	if patch.Label != nil {
		e.Label = *patch.Label
	}

	out := *e
	return &out, nil
}

func (s *Store) DeleteEdge(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.edges[id]; !exists {
		return fmt.Errorf("edge %d: %w", id, graph.ErrNotFound)
	}
	delete(s.edges, id)
	return nil
}

func (s *Store) ListEdgesByOwner(_ context.Context, ownerID int64, filter graph.EdgeFilter, limit, offset int) ([]*graph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*graph.Edge, 0)
	for _, e := range s.edges {
		from, exists := s.nodes[e.FromNodeID]
		if !exists {
			continue
		}
		g, exists := s.graphs[from.GraphID]
		if !exists || g.OwnerID != ownerID {
			continue
		}
		if filter.GraphID != nil && from.GraphID != *filter.GraphID {
			continue
		}
		if filter.FromNodeID != nil && e.FromNodeID != *filter.FromNodeID {
			continue
		}
		if filter.ToNodeID != nil && e.ToNodeID != *filter.ToNodeID {
			continue
		}
		if filter.Polarity != nil && e.Polarity != *filter.Polarity {
			continue
		}
		out := *e
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, limit, offset), nil
}

func (s *Store) ListOutgoingEdges(_ context.Context, fromNodeID int64, polarity *graph.Polarity) ([]*graph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*graph.Edge, 0)
	for _, e := range s.edges {
		if e.FromNodeID != fromNodeID {
			continue
		}
		if polarity != nil && e.Polarity != *polarity {
			continue
		}
		out := *e
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

// Techniques

func (s *Store) CreateTechnique(_ context.Context, nodeID int64, videoURL, steps string) (*graph.Technique, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[nodeID]; !exists {
		return nil, fmt.Errorf("node %d: %w", nodeID, graph.ErrNotFound)
	}
	if _, exists := s.nodeTech[nodeID]; exists {
		return nil, fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrConflict)
	}

	s.nextTechniqueID++
	t := &graph.Technique{
		ID:       s.nextTechniqueID,
		NodeID:   nodeID,
		VideoURL: videoURL,
		Steps:    steps,
	}
	s.techniques[t.ID] = t
	s.nodeTech[nodeID] = t.ID

	out := *t
	return &out, nil
}

func (s *Store) GetTechniqueByNode(_ context.Context, nodeID int64) (*graph.Technique, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	techID, exists := s.nodeTech[nodeID]
	if !exists {
		return nil, fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrNotFound)
	}
	out := *s.techniques[techID]
	return &out, nil
}

func (s *Store) UpdateTechnique(_ context.Context, nodeID int64, patch graph.TechniquePatch) (*graph.Technique, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	techID, exists := s.nodeTech[nodeID]
	if !exists {
		return nil, fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrNotFound)
	}
	t := s.techniques[techID]

	if patch.VideoURL != nil {
		t.VideoURL = *patch.VideoURL
	}
	if patch.Steps != nil {
		t.Steps = *patch.Steps
	}

	out := *t
	return &out, nil
}

func (s *Store) DeleteTechniqueByNode(_ context.Context, nodeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	techID, exists := s.nodeTech[nodeID]
	if !exists {
		return fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrNotFound)
	}
	delete(s.techniques, techID)
	delete(s.nodeTech, nodeID)
	return nil
}

// page applies limit/offset to an already sorted slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
