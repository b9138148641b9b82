package graph

import (
	"context"

	"github.com/matslogic/matslogic/pkg/events"
	"github.com/matslogic/matslogic/pkg/logging"
)

// CreateTechnique attaches a technique detail record to a node. Each node
// carries at most one; a second create fails with a conflict rather than
// overwriting.
func (s *Service) CreateTechnique(ctx context.Context, callerID, nodeID int64, videoURL, steps string) (*Technique, error) {
	const op = "CreateTechnique"
	n, err := s.ownedNode(ctx, op, "node", callerID, nodeID)
	if err != nil {
		return nil, err
	}

	t, err := s.store.CreateTechnique(ctx, nodeID, videoURL, steps)
	if err != nil {
		if IsConflict(err) {
			return nil, conflict(op, "technique", nodeID)
		}
		return nil, opErr(op, "technique", nodeID, err)
	}

	s.log.Info("technique created", logging.NodeID(nodeID), logging.GraphID(n.GraphID), logging.UserID(callerID))
	s.publish(events.ActionCreated, "technique", t.ID, n.GraphID, callerID)
	return t, nil
}

// GetTechnique returns the technique attached to the node. A node without a
// technique reports not found, same as an absent or foreign node.
func (s *Service) GetTechnique(ctx context.Context, callerID, nodeID int64) (*Technique, error) {
	const op = "GetTechnique"
	if _, err := s.ownedNode(ctx, op, "node", callerID, nodeID); err != nil {
		return nil, err
	}

	t, err := s.store.GetTechniqueByNode(ctx, nodeID)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, "technique", nodeID)
		}
		return nil, opErr(op, "technique", nodeID, err)
	}
	return t, nil
}

// UpdateTechnique applies a partial update. Nil patch fields stay unchanged.
func (s *Service) UpdateTechnique(ctx context.Context, callerID, nodeID int64, patch TechniquePatch) (*Technique, error) {
	const op = "UpdateTechnique"
	n, err := s.ownedNode(ctx, op, "node", callerID, nodeID)
	if err != nil {
		return nil, err
	}

	t, err := s.store.UpdateTechnique(ctx, nodeID, patch)
	if err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, "technique", nodeID)
		}
		return nil, opErr(op, "technique", nodeID, err)
	}

	s.publish(events.ActionUpdated, "technique", t.ID, n.GraphID, callerID)
	return t, nil
}

// DeleteTechnique detaches and removes the node's technique. Node cascade
// deletion takes the same storage path.
func (s *Service) DeleteTechnique(ctx context.Context, callerID, nodeID int64) error {
	const op = "DeleteTechnique"
	n, err := s.ownedNode(ctx, op, "node", callerID, nodeID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTechniqueByNode(ctx, nodeID); err != nil {
		if IsNotFound(err) {
			return notFound(op, "technique", nodeID)
		}
		return opErr(op, "technique", nodeID, err)
	}

	s.publish(events.ActionDeleted, "technique", 0, n.GraphID, callerID)
	return nil
}
