package graph

import (
	"context"
	"fmt"

	"github.com/matslogic/matslogic/pkg/events"
	"github.com/matslogic/matslogic/pkg/logging"
)

// CreateEdge creates a transition between two nodes of the same graph.
// Validation order is fixed for error precision: origin lookup, destination
// lookup, same-graph check, then triple uniqueness at the storage boundary.
func (s *Service) CreateEdge(ctx context.Context, callerID, fromNodeID, toNodeID int64, polarity Polarity, note string) (*Edge, error) {
	const op = "CreateEdge"

	if polarity == "" {
		polarity = DefaultPolarity
	}
	if !polarity.Valid() {
		return nil, invalid(op, "polarity", fmt.Errorf("%w: unknown polarity %q", ErrInvalidArgument, polarity))
	}

	from, err := s.ownedNode(ctx, op, "origin", callerID, fromNodeID)
	if err != nil {
		return nil, err
	}
	to, err := s.ownedNode(ctx, op, "destination", callerID, toNodeID)
	if err != nil {
		return nil, err
	}
	if from.GraphID != to.GraphID {
		return nil, invalid(op, "edge", fmt.Errorf("%w: nodes belong to different graphs", ErrInvalidArgument))
	}

	e, err := s.store.CreateEdge(ctx, &Edge{
		FromNodeID: fromNodeID,
		ToNodeID:   toNodeID,
		Polarity:   polarity,
		Note:       note,
	})
	if err != nil {
		if IsConflict(err) {
			return nil, conflict(op, "edge", 0)
		}
		return nil, opErr(op, "edge", 0, err)
	}

	s.log.Info("edge created",
		logging.EdgeID(e.ID),
		logging.GraphID(from.GraphID),
		logging.UserID(callerID),
		logging.String("polarity", polarity.String()),
	)
	s.publish(events.ActionCreated, "edge", e.ID, from.GraphID, callerID)
	return e, nil
}

// GetEdge returns the edge when the caller owns it, resolved through the
// from-node's graph.
func (s *Service) GetEdge(ctx context.Context, callerID, edgeID int64) (*Edge, error) {
	return s.ownedEdge(ctx, "GetEdge", callerID, edgeID)
}

// UpdateEdge applies a partial update. Nil patch fields stay unchanged. A
// polarity change re-validates triple uniqueness, so an update can never
// smuggle in a duplicate that CreateEdge would have rejected.
func (s *Service) UpdateEdge(ctx context.Context, callerID, edgeID int64, patch EdgePatch) (*Edge, error) {
	const op = "UpdateEdge"

	if patch.Polarity != nil && !patch.Polarity.Valid() {
		return nil, invalid(op, "polarity", fmt.Errorf("%w: unknown polarity %q", ErrInvalidArgument, *patch.Polarity))
	}

	e, err := s.ownedEdge(ctx, op, callerID, edgeID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return e, nil
	}

	updated, err := s.store.UpdateEdge(ctx, edgeID, patch)
	if err != nil {
		if IsConflict(err) {
			return nil, conflict(op, "edge", edgeID)
		}
		if IsNotFound(err) {
			return nil, notFound(op, "edge", edgeID)
		}
		return nil, opErr(op, "edge", edgeID, err)
	}

	s.publish(events.ActionUpdated, "edge", edgeID, 0, callerID)
	return updated, nil
}

// DeleteEdge removes the edge directly. Nothing references an edge, so there
// is no cascade.
func (s *Service) DeleteEdge(ctx context.Context, callerID, edgeID int64) error {
	const op = "DeleteEdge"
	if _, err := s.ownedEdge(ctx, op, callerID, edgeID); err != nil {
		return err
	}

	if err := s.store.DeleteEdge(ctx, edgeID); err != nil {
		if IsNotFound(err) {
			return notFound(op, "edge", edgeID)
		}
		return opErr(op, "edge", edgeID, err)
	}

	s.publish(events.ActionDeleted, "edge", edgeID, 0, callerID)
	return nil
}

// ListEdges returns the caller's edges ordered by id ascending. All filters
// combine with logical AND; scoping follows the from-node's graph.
func (s *Service) ListEdges(ctx context.Context, callerID int64, filter EdgeFilter, limit, offset int) ([]*Edge, error) {
	const op = "ListEdges"
	limit, offset, err := clampPage(op, limit, offset, EdgePageCeiling)
	if err != nil {
		return nil, err
	}
	if filter.Polarity != nil && !filter.Polarity.Valid() {
		return nil, invalid(op, "polarity", fmt.Errorf("%w: unknown polarity %q", ErrInvalidArgument, *filter.Polarity))
	}

	edges, err := s.store.ListEdgesByOwner(ctx, callerID, filter, limit, offset)
	if err != nil {
		return nil, opErr(op, "edge", 0, err)
	}
	return edges, nil
}
