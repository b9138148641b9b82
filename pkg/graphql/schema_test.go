package graphql

import (
	"context"
	"testing"

	gql "github.com/graphql-go/graphql"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/store/memory"
)

func newTestSchema(t *testing.T) (gql.Schema, *graph.Service, int64, int64) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	svc := graph.NewService(store)

	owner, err := store.CreateUser(ctx, "Alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	other, err := store.CreateUser(ctx, "Bob", "bob@example.com", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	schema, err := NewSchema(svc)
	if err != nil {
		t.Fatalf("failed to build schema: %v", err)
	}
	return schema, svc, owner.ID, other.ID
}

func run(t *testing.T, schema gql.Schema, callerID int64, query string, variables map[string]any) *gql.Result {
	t.Helper()
	return gql.Do(gql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        WithCallerID(context.Background(), callerID),
	})
}

func TestQueryGraphs(t *testing.T) {
	schema, svc, ownerID, otherID := newTestSchema(t)
	ctx := context.Background()

	if _, err := svc.CreateGraph(ctx, ownerID, "Mine"); err != nil {
		t.Fatalf("failed to create graph: %v", err)
	}
	if _, err := svc.CreateGraph(ctx, otherID, "Not mine"); err != nil {
		t.Fatalf("failed to create graph: %v", err)
	}

	result := run(t, schema, ownerID, `{ graphs { id title } }`, nil)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	graphs := data["graphs"].([]any)
	if len(graphs) != 1 {
		t.Fatalf("expected 1 graph, got %d", len(graphs))
	}
	first := graphs[0].(map[string]any)
	if first["title"] != "Mine" {
		t.Errorf("unexpected title %v", first["title"])
	}
}

func TestQueryGraphWithContents(t *testing.T) {
	schema, svc, ownerID, _ := newTestSchema(t)
	ctx := context.Background()

	g, err := svc.CreateGraph(ctx, ownerID, "Flow")
	if err != nil {
		t.Fatalf("failed to create graph: %v", err)
	}
	a, _ := svc.CreateNode(ctx, ownerID, g.ID, "a")
	b, _ := svc.CreateNode(ctx, ownerID, g.ID, "b")
	if _, err := svc.CreateEdge(ctx, ownerID, a.ID, b.ID, graph.PolarityNegative, ""); err != nil {
		t.Fatalf("failed to create edge: %v", err)
	}
	if _, err := svc.CreateTechnique(ctx, ownerID, a.ID, "", "steps"); err != nil {
		t.Fatalf("failed to create technique: %v", err)
	}

	result := run(t, schema, ownerID,
		`query ($id: ID!) {
			graph(id: $id) {
				title
				nodes { name technique { steps } }
				edges { polarity }
			}
		}`,
		map[string]any{"id": g.ID})
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	got := data["graph"].(map[string]any)
	nodes := got["nodes"].([]any)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	edges := got["edges"].([]any)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	edge := edges[0].(map[string]any)
	if edge["polarity"] != "NEGATIVE" {
		t.Errorf("unexpected polarity %v", edge["polarity"])
	}
}

func TestQueryNextNodes(t *testing.T) {
	schema, svc, ownerID, otherID := newTestSchema(t)
	ctx := context.Background()

	g, _ := svc.CreateGraph(ctx, ownerID, "Flow")
	a, _ := svc.CreateNode(ctx, ownerID, g.ID, "a")
	b, _ := svc.CreateNode(ctx, ownerID, g.ID, "b")
	c, _ := svc.CreateNode(ctx, ownerID, g.ID, "c")
	svc.CreateEdge(ctx, ownerID, a.ID, b.ID, graph.PolarityPositive, "")
	svc.CreateEdge(ctx, ownerID, a.ID, c.ID, graph.PolarityNegative, "")

	result := run(t, schema, ownerID,
		`query ($id: ID!) { nextNodes(nodeId: $id, polarity: POSITIVE) { name } }`,
		map[string]any{"id": a.ID})
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	data := result.Data.(map[string]any)
	next := data["nextNodes"].([]any)
	if len(next) != 1 {
		t.Fatalf("expected 1 node, got %d", len(next))
	}

	// A different caller cannot see the source node at all.
	foreign := run(t, schema, otherID,
		`query ($id: ID!) { nextNodes(nodeId: $id) { name } }`,
		map[string]any{"id": a.ID})
	if !foreign.HasErrors() {
		t.Fatal("expected an error for a foreign node")
	}
}

func TestQueryWithoutCaller(t *testing.T) {
	schema, svc, ownerID, _ := newTestSchema(t)
	if _, err := svc.CreateGraph(context.Background(), ownerID, "Hidden"); err != nil {
		t.Fatalf("failed to create graph: %v", err)
	}

	// Caller id zero matches no account, so nothing is visible.
	result := run(t, schema, 0, `{ graphs { id } }`, nil)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	data := result.Data.(map[string]any)
	graphs := data["graphs"].([]any)
	if len(graphs) != 0 {
		t.Errorf("expected no graphs, got %d", len(graphs))
	}
}
