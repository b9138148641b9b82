package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matslogic/matslogic/pkg/graph"
)

// CreateNode inserts a node into a graph.
func (s *Store) CreateNode(ctx context.Context, graphID int64, name string) (*graph.Node, error) {
	query := `
		INSERT INTO nodes (name, graph_id)
		VALUES ($1, $2)
		RETURNING id
	`

	n := &graph.Node{Name: name, GraphID: graphID}
	if err := s.pool.QueryRow(ctx, query, name, graphID).Scan(&n.ID); err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}

	return n, nil
}

// GetNode retrieves a node by id.
func (s *Store) GetNode(ctx context.Context, id int64) (*graph.Node, error) {
	query := `
		SELECT id, name, graph_id
		FROM nodes
		WHERE id = $1
	`

	n := &graph.Node{}
	err := s.pool.QueryRow(ctx, query, id).Scan(&n.ID, &n.Name, &n.GraphID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("node %d: %w", id, graph.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return n, nil
}

// ListNodesByOwner returns a page of nodes across the owner's graphs in id
// order, optionally restricted to one graph. Ownership resolves through the
// graphs join; nodes never carry an owner column.
func (s *Store) ListNodesByOwner(ctx context.Context, ownerID int64, graphID *int64, limit, offset int) ([]*graph.Node, error) {
	query := `
		SELECT n.id, n.name, n.graph_id
		FROM nodes n
		JOIN graphs g ON g.id = n.graph_id
		WHERE g.owner_id = $1
		  AND ($2::bigint IS NULL OR n.graph_id = $2)
		ORDER BY n.id ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := s.pool.Query(ctx, query, ownerID, graphID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]*graph.Node, 0)
	for rows.Next() {
		n := &graph.Node{}
		if err := rows.Scan(&n.ID, &n.Name, &n.GraphID); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	return nodes, nil
}

// DeleteNodeCascade removes a node with its technique and incident edges in
// one transaction, so no reader observes a dangling reference.
func (s *Store) DeleteNodeCascade(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM techniques WHERE node_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete technique: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM edges WHERE from_node_id = $1 OR to_node_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete edges: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM nodes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("node %d: %w", id, graph.ErrNotFound)
	}

	return tx.Commit(ctx)
}
