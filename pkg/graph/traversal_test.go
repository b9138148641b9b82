package graph_test

import (
	"context"
	"testing"

	"github.com/matslogic/matslogic/pkg/graph"
)

func TestNextNodes(t *testing.T) {
	svc, _, ownerID, otherID := newTestService(t)
	ctx := context.Background()

	// 1 -> 2 (positive), 1 -> 3 (negative), 1 -> 2 (neutral): the duplicate
	// target must collapse to a single entry.
	_, nodes := seedGraph(t, svc, ownerID, "Flow", "one", "two", "three")
	n1, n2, n3 := nodes[0], nodes[1], nodes[2]
	svcMustEdge(t, svc, ownerID, n1.ID, n2.ID, graph.PolarityPositive)
	svcMustEdge(t, svc, ownerID, n1.ID, n3.ID, graph.PolarityNegative)
	svcMustEdge(t, svc, ownerID, n1.ID, n2.ID, graph.PolarityNeutral)

	t.Run("all polarities", func(t *testing.T) {
		next, err := svc.NextNodes(ctx, ownerID, n1.ID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertNodeIDs(t, next, n2.ID, n3.ID)
	})

	t.Run("positive only", func(t *testing.T) {
		next, err := svc.NextNodes(ctx, ownerID, n1.ID, polarityPtr(graph.PolarityPositive))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertNodeIDs(t, next, n2.ID)
	})

	t.Run("no matches is empty not error", func(t *testing.T) {
		next, err := svc.NextNodes(ctx, ownerID, n3.ID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(next) != 0 {
			t.Errorf("expected no nodes, got %d", len(next))
		}
	})

	t.Run("neutral only", func(t *testing.T) {
		next, err := svc.NextNodes(ctx, ownerID, n1.ID, polarityPtr(graph.PolarityNeutral))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertNodeIDs(t, next, n2.ID)
	})

	t.Run("invalid polarity", func(t *testing.T) {
		p := graph.Polarity("bogus")
		if _, err := svc.NextNodes(ctx, ownerID, n1.ID, &p); !graph.IsInvalidArgument(err) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})

	t.Run("foreign source", func(t *testing.T) {
		if _, err := svc.NextNodes(ctx, otherID, n1.ID, nil); !graph.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		if _, err := svc.NextNodes(ctx, ownerID, 99999, nil); !graph.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestNextNodes_SelfLoop(t *testing.T) {
	svc, _, ownerID, _ := newTestService(t)
	ctx := context.Background()

	_, nodes := seedGraph(t, svc, ownerID, "Loop", "solo")
	n := nodes[0]
	svcMustEdge(t, svc, ownerID, n.ID, n.ID, graph.PolarityNeutral)

	next, err := svc.NextNodes(ctx, ownerID, n.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertNodeIDs(t, next, n.ID)
}

func assertNodeIDs(t *testing.T, nodes []*graph.Node, want ...int64) {
	t.Helper()
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, n := range nodes {
		if n.ID != want[i] {
			t.Errorf("position %d: expected node %d, got %d", i, want[i], n.ID)
		}
	}
	// Results come back in ascending id order.
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].ID >= nodes[i].ID {
			t.Errorf("nodes not in ascending order at position %d", i)
		}
	}
}
