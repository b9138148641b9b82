package graph_test

import (
	"context"
	"testing"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/store/memory"
)

// newTestService wires a service over the in-memory store with two accounts:
// the caller under test and a second account for ownership checks.
func newTestService(t *testing.T) (*graph.Service, graph.Store, int64, int64) {
	t.Helper()
	store := memory.New()
	svc := graph.NewService(store)

	ctx := context.Background()
	owner, err := store.CreateUser(ctx, "Alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	other, err := store.CreateUser(ctx, "Bob", "bob@example.com", "hash")
	if err != nil {
		t.Fatalf("failed to create second user: %v", err)
	}
	return svc, store, owner.ID, other.ID
}

// seedGraph creates a graph with the given node names and returns the graph
// and nodes in order.
func seedGraph(t *testing.T, svc *graph.Service, ownerID int64, title string, nodeNames ...string) (*graph.Graph, []*graph.Node) {
	t.Helper()
	ctx := context.Background()
	g, err := svc.CreateGraph(ctx, ownerID, title)
	if err != nil {
		t.Fatalf("failed to create graph: %v", err)
	}
	nodes := make([]*graph.Node, 0, len(nodeNames))
	for _, name := range nodeNames {
		n, err := svc.CreateNode(ctx, ownerID, g.ID, name)
		if err != nil {
			t.Fatalf("failed to create node %q: %v", name, err)
		}
		nodes = append(nodes, n)
	}
	return g, nodes
}
