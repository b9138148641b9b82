package graph

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// NextNodes answers one-hop reachability: all distinct nodes directly
// reachable from the given node via outgoing edges, optionally restricted to
// one polarity. Duplicate targets reached through multiple polarities
// collapse to one entry. A node with no outgoing edges yields an empty
// slice, not an error.
func (s *Service) NextNodes(ctx context.Context, callerID, nodeID int64, polarity *Polarity) ([]*Node, error) {
	const op = "NextNodes"
	start := time.Now()

	if polarity != nil && !polarity.Valid() {
		return nil, invalid(op, "polarity", fmt.Errorf("%w: unknown polarity %q", ErrInvalidArgument, *polarity))
	}
	if _, err := s.ownedNode(ctx, op, "node", callerID, nodeID); err != nil {
		return nil, err
	}

	edges, err := s.store.ListOutgoingEdges(ctx, nodeID, polarity)
	if err != nil {
		return nil, opErr(op, "edge", 0, err)
	}

	seen := make(map[int64]bool, len(edges))
	targets := make([]int64, 0, len(edges))
	for _, e := range edges {
		if !seen[e.ToNodeID] {
			seen[e.ToNodeID] = true
			targets = append(targets, e.ToNodeID)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	// Re-filter targets by ownership. Same-graph edges guarantee same-owner
	// targets already; this keeps the guarantee even if a storage-level
	// inconsistency slips through.
	nodes := make([]*Node, 0, len(targets))
	for _, id := range targets {
		n, err := s.ownedNode(ctx, op, "node", callerID, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		nodes = append(nodes, n)
	}

	if s.metrics != nil {
		s.metrics.RecordTraversal("ok", time.Since(start), len(nodes))
	}
	return nodes, nil
}
