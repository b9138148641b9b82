package graph

import (
	"context"
	"fmt"

	"github.com/matslogic/matslogic/pkg/events"
	"github.com/matslogic/matslogic/pkg/logging"
	"github.com/matslogic/matslogic/pkg/metrics"
)

// Pagination ceilings per listing. A limit above the ceiling clamps; a
// non-positive limit uses the default page size; a negative offset is
// rejected.
const (
	GraphPageCeiling = 200
	NodePageCeiling  = 500
	EdgePageCeiling  = 1000
	DefaultPageSize  = 50
)

// Service implements every owner-scoped operation over the progression
// model. All reads and writes resolve ownership before touching entity
// state; entities owned by other users are reported as not found, never as
// forbidden.
type Service struct {
	store   Store
	sink    events.Publisher
	log     logging.Logger
	metrics *metrics.Registry
}

// Option configures a Service.
type Option func(*Service)

// WithEvents attaches a mutation event publisher.
func WithEvents(sink events.Publisher) Option {
	return func(s *Service) { s.sink = sink }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) { s.metrics = reg }
}

// NewService creates a service over the given storage boundary.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(action events.Action, entity string, id, graphID, ownerID int64) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(events.Event{
		Action:  action,
		Entity:  entity,
		ID:      id,
		GraphID: graphID,
		OwnerID: ownerID,
	})
	if s.metrics != nil {
		s.metrics.RecordEventPublished(entity, string(action))
	}
}

// clampPage normalizes limit/offset against a ceiling.
func clampPage(op string, limit, offset, ceiling int) (int, int, error) {
	if offset < 0 {
		return 0, 0, invalid(op, "pagination", fmt.Errorf("%w: offset must be non-negative", ErrInvalidArgument))
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > ceiling {
		limit = ceiling
	}
	return limit, offset, nil
}

// ownedGraph loads a graph and verifies the caller owns it. Both absence and
// foreign ownership collapse to not found.
func (s *Service) ownedGraph(ctx context.Context, op string, callerID, graphID int64) (*Graph, error) {
	g, err := s.store.GetGraph(ctx, graphID)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, "graph", graphID)
		}
		return nil, opErr(op, "graph", graphID, err)
	}
	if g.OwnerID != callerID {
		return nil, notFound(op, "graph", graphID)
	}
	return g, nil
}

// ownedNode loads a node and resolves ownership transitively through its
// graph. The entity name appears in the returned error so edge creation can
// distinguish origin from destination failures.
func (s *Service) ownedNode(ctx context.Context, op, entity string, callerID, nodeID int64) (*Node, error) {
	n, err := s.store.GetNode(ctx, nodeID)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, entity, nodeID)
		}
		return nil, opErr(op, entity, nodeID, err)
	}
	if _, err := s.ownedGraph(ctx, op, callerID, n.GraphID); err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, entity, nodeID)
		}
		return nil, err
	}
	return n, nil
}

// ownedEdge loads an edge and resolves ownership through its from-node's
// graph. The to-node is not independently checked: edges never cross graphs,
// so both endpoints share an owner.
func (s *Service) ownedEdge(ctx context.Context, op string, callerID, edgeID int64) (*Edge, error) {
	e, err := s.store.GetEdge(ctx, edgeID)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, "edge", edgeID)
		}
		return nil, opErr(op, "edge", edgeID, err)
	}
	if _, err := s.ownedNode(ctx, op, "node", callerID, e.FromNodeID); err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, "edge", edgeID)
		}
		return nil, err
	}
	return e, nil
}
