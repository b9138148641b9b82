package graph

import (
	"context"

	"github.com/matslogic/matslogic/pkg/events"
	"github.com/matslogic/matslogic/pkg/logging"
)

// CreateNode creates a node within one of the caller's graphs.
func (s *Service) CreateNode(ctx context.Context, callerID, graphID int64, name string) (*Node, error) {
	const op = "CreateNode"
	if err := validateTitle(op, "name", name); err != nil {
		return nil, err
	}

	g, err := s.ownedGraph(ctx, op, callerID, graphID)
	if err != nil {
		return nil, err
	}

	n, err := s.store.CreateNode(ctx, g.ID, name)
	if err != nil {
		return nil, opErr(op, "node", 0, err)
	}

	s.log.Info("node created", logging.NodeID(n.ID), logging.GraphID(g.ID), logging.UserID(callerID))
	s.publish(events.ActionCreated, "node", n.ID, g.ID, callerID)
	return n, nil
}

// GetNode returns the node when the caller owns its graph.
func (s *Service) GetNode(ctx context.Context, callerID, nodeID int64) (*Node, error) {
	return s.ownedNode(ctx, "GetNode", "node", callerID, nodeID)
}

// ListNodes returns the caller's nodes ordered by id ascending, optionally
// filtered to a single graph. A graph filter pointing at someone else's
// graph yields not found rather than an empty page.
func (s *Service) ListNodes(ctx context.Context, callerID int64, graphID *int64, limit, offset int) ([]*Node, error) {
	const op = "ListNodes"
	limit, offset, err := clampPage(op, limit, offset, NodePageCeiling)
	if err != nil {
		return nil, err
	}

	if graphID != nil {
		if _, err := s.ownedGraph(ctx, op, callerID, *graphID); err != nil {
			return nil, err
		}
	}

	nodes, err := s.store.ListNodesByOwner(ctx, callerID, graphID, limit, offset)
	if err != nil {
		return nil, opErr(op, "node", 0, err)
	}
	return nodes, nil
}

// DeleteNode removes the node, its technique (if any), and every edge where
// the node is either endpoint, as one atomic unit. No reader may observe a
// partial cascade.
func (s *Service) DeleteNode(ctx context.Context, callerID, nodeID int64) error {
	const op = "DeleteNode"
	n, err := s.ownedNode(ctx, op, "node", callerID, nodeID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteNodeCascade(ctx, nodeID); err != nil {
		if IsNotFound(err) {
			return notFound(op, "node", nodeID)
		}
		return opErr(op, "node", nodeID, err)
	}

	s.log.Info("node deleted", logging.NodeID(nodeID), logging.GraphID(n.GraphID), logging.UserID(callerID))
	s.publish(events.ActionDeleted, "node", nodeID, n.GraphID, callerID)
	return nil
}
