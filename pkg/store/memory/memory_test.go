package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matslogic/matslogic/pkg/graph"
)

func TestStoreEnforcesTripleUniqueness(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.CreateUser(ctx, "u", "u@example.com", "hash")
	require.NoError(t, err)
	g, err := store.CreateGraph(ctx, user.ID, "g")
	require.NoError(t, err)
	a, err := store.CreateNode(ctx, g.ID, "a")
	require.NoError(t, err)
	b, err := store.CreateNode(ctx, g.ID, "b")
	require.NoError(t, err)

	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Polarity: graph.PolarityPositive})
	require.NoError(t, err)

	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Polarity: graph.PolarityPositive})
	assert.True(t, graph.IsConflict(err), "duplicate triple must conflict, got %v", err)

	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Polarity: graph.PolarityNegative})
	assert.NoError(t, err, "same pair with a different polarity is a distinct triple")
}

func TestStoreEnforcesTechniqueSlot(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.CreateUser(ctx, "u", "u@example.com", "hash")
	require.NoError(t, err)
	g, err := store.CreateGraph(ctx, user.ID, "g")
	require.NoError(t, err)
	n, err := store.CreateNode(ctx, g.ID, "n")
	require.NoError(t, err)

	_, err = store.CreateTechnique(ctx, n.ID, "", "steps")
	require.NoError(t, err)

	_, err = store.CreateTechnique(ctx, n.ID, "", "more steps")
	assert.True(t, graph.IsConflict(err), "second attachment must conflict, got %v", err)
}

func TestStoreGraphCascadeIsComplete(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.CreateUser(ctx, "u", "u@example.com", "hash")
	require.NoError(t, err)
	g, err := store.CreateGraph(ctx, user.ID, "doomed")
	require.NoError(t, err)
	keep, err := store.CreateGraph(ctx, user.ID, "kept")
	require.NoError(t, err)

	a, err := store.CreateNode(ctx, g.ID, "a")
	require.NoError(t, err)
	b, err := store.CreateNode(ctx, g.ID, "b")
	require.NoError(t, err)
	outside, err := store.CreateNode(ctx, keep.ID, "outside")
	require.NoError(t, err)

	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Polarity: graph.PolarityPositive})
	require.NoError(t, err)
	_, err = store.CreateTechnique(ctx, b.ID, "", "steps")
	require.NoError(t, err)

	require.NoError(t, store.DeleteGraphCascade(ctx, g.ID))

	_, err = store.GetGraph(ctx, g.ID)
	assert.True(t, graph.IsNotFound(err))
	_, err = store.GetNode(ctx, a.ID)
	assert.True(t, graph.IsNotFound(err))
	_, err = store.GetNode(ctx, b.ID)
	assert.True(t, graph.IsNotFound(err))
	_, err = store.GetTechniqueByNode(ctx, b.ID)
	assert.True(t, graph.IsNotFound(err))

	edges, err := store.ListEdgesByOwner(ctx, user.ID, graph.EdgeFilter{}, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, edges)

	// The other graph is untouched.
	_, err = store.GetGraph(ctx, keep.ID)
	assert.NoError(t, err)
	_, err = store.GetNode(ctx, outside.ID)
	assert.NoError(t, err)
}

func TestStoreCopiesOnReturn(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.CreateUser(ctx, "u", "u@example.com", "hash")
	require.NoError(t, err)
	g, err := store.CreateGraph(ctx, user.ID, "original")
	require.NoError(t, err)

	// Mutating a returned row must not leak into the store.
	g.Title = "mutated"
	reread, err := store.GetGraph(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", reread.Title)
}

func TestStoreListOutgoingEdges(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.CreateUser(ctx, "u", "u@example.com", "hash")
	require.NoError(t, err)
	g, err := store.CreateGraph(ctx, user.ID, "g")
	require.NoError(t, err)
	a, err := store.CreateNode(ctx, g.ID, "a")
	require.NoError(t, err)
	b, err := store.CreateNode(ctx, g.ID, "b")
	require.NoError(t, err)

	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Polarity: graph.PolarityPositive})
	require.NoError(t, err)
	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: a.ID, ToNodeID: b.ID, Polarity: graph.PolarityNegative})
	require.NoError(t, err)
	_, err = store.CreateEdge(ctx, &graph.Edge{FromNodeID: b.ID, ToNodeID: a.ID, Polarity: graph.PolarityPositive})
	require.NoError(t, err)

	all, err := store.ListOutgoingEdges(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	neg := graph.PolarityNegative
	filtered, err := store.ListOutgoingEdges(ctx, a.ID, &neg)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, graph.PolarityNegative, filtered[0].Polarity)
}
