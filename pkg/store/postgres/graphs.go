package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matslogic/matslogic/pkg/graph"
)

// CreateGraph inserts a graph owned by the given user.
func (s *Store) CreateGraph(ctx context.Context, ownerID int64, title string) (*graph.Graph, error) {
	query := `
		INSERT INTO graphs (title, owner_id)
		VALUES ($1, $2)
		RETURNING id
	`

	g := &graph.Graph{Title: title, OwnerID: ownerID}
	if err := s.pool.QueryRow(ctx, query, title, ownerID).Scan(&g.ID); err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}

	return g, nil
}

// GetGraph retrieves a graph by id.
func (s *Store) GetGraph(ctx context.Context, id int64) (*graph.Graph, error) {
	query := `
		SELECT id, title, owner_id
		FROM graphs
		WHERE id = $1
	`

	g := &graph.Graph{}
	err := s.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Title, &g.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("graph %d: %w", id, graph.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get graph: %w", err)
	}

	return g, nil
}

// ListGraphsByOwner returns a page of the owner's graphs in id order.
func (s *Store) ListGraphsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*graph.Graph, error) {
	query := `
		SELECT id, title, owner_id
		FROM graphs
		WHERE owner_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	defer rows.Close()

	graphs := make([]*graph.Graph, 0)
	for rows.Next() {
		g := &graph.Graph{}
		if err := rows.Scan(&g.ID, &g.Title, &g.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan graph: %w", err)
		}
		graphs = append(graphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graphs: %w", err)
	}

	return graphs, nil
}

// UpdateGraphTitle renames a graph.
func (s *Store) UpdateGraphTitle(ctx context.Context, id int64, title string) error {
	result, err := s.pool.Exec(ctx, `UPDATE graphs SET title = $2 WHERE id = $1`, id, title)
	if err != nil {
		return fmt.Errorf("failed to update graph: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("graph %d: %w", id, graph.ErrNotFound)
	}
	return nil
}

// DeleteGraphCascade removes a graph with all dependent rows in one
// transaction: techniques first, then edges, then nodes, then the graph.
func (s *Store) DeleteGraphCascade(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM techniques WHERE node_id IN (SELECT id FROM nodes WHERE graph_id = $1)`, id); err != nil {
		return fmt.Errorf("failed to delete techniques: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM edges WHERE from_node_id IN (SELECT id FROM nodes WHERE graph_id = $1)
			OR to_node_id IN (SELECT id FROM nodes WHERE graph_id = $1)`, id); err != nil {
		return fmt.Errorf("failed to delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM nodes WHERE graph_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete nodes: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM graphs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("graph %d: %w", id, graph.ErrNotFound)
	}

	return tx.Commit(ctx)
}
