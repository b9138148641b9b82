package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/matslogic/matslogic/pkg/graph"
)

const edgeColumns = "id, from_node_id, to_node_id, polarity, note, color, label"

func scanEdge(row pgx.Row) (*graph.Edge, error) {
	e := &graph.Edge{}
	var polarity string
	err := row.Scan(&e.ID, &e.FromNodeID, &e.ToNodeID, &polarity, &e.Note, &e.Color, &e.Label)
	if err != nil {
		return nil, err
	}
	e.Polarity = graph.Polarity(polarity)
	return e, nil
}

// CreateEdge inserts an edge. The unique triple index turns a concurrent
// duplicate insert into a conflict.
func (s *Store) CreateEdge(ctx context.Context, e *graph.Edge) (*graph.Edge, error) {
	query := `
		INSERT INTO edges (from_node_id, to_node_id, polarity, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	stored := *e
	err := s.pool.QueryRow(ctx, query,
		e.FromNodeID, e.ToNodeID, e.Polarity.String(), e.Note,
	).Scan(&stored.ID)
	if err != nil {
		return nil, mapError(err, "edge", 0)
	}

	return &stored, nil
}

// GetEdge retrieves an edge by id.
func (s *Store) GetEdge(ctx context.Context, id int64) (*graph.Edge, error) {
	query := `SELECT ` + edgeColumns + ` FROM edges WHERE id = $1`

	e, err := scanEdge(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "edge", id)
	}
	return e, nil
}

// UpdateEdge applies a partial update inside a transaction. Only supplied
// fields change; a polarity change that collides with an existing triple is
// rejected by the unique index and surfaces as a conflict.
func (s *Store) UpdateEdge(ctx context.Context, id int64, patch graph.EdgePatch) (*graph.Edge, error) {
	sets := make([]string, 0, 4)
	args := []any{id}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Polarity != nil {
		addSet("polarity", patch.Polarity.String())
	}
	if patch.Note != nil {
		addSet("note", *patch.Note)
	}
	if patch.Color != nil {
		addSet("color", *patch.Color)
	}
	if patch.Label != nil {
		addSet("label", *patch.Label)
	}
	if len(sets) == 0 {
		return s.GetEdge(ctx, id)
	}

	query := `UPDATE edges SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + edgeColumns

	e, err := scanEdge(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "edge", id)
	}
	return e, nil
}

// DeleteEdge removes an edge by id.
func (s *Store) DeleteEdge(ctx context.Context, id int64) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM edges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("edge %d: %w", id, graph.ErrNotFound)
	}
	return nil
}

// ListEdgesByOwner returns a page of the owner's edges in id order. Scoping
// follows the from-node's graph; filters combine with AND.
func (s *Store) ListEdgesByOwner(ctx context.Context, ownerID int64, filter graph.EdgeFilter, limit, offset int) ([]*graph.Edge, error) {
	var polarity *string
	if filter.Polarity != nil {
		p := filter.Polarity.String()
		polarity = &p
	}

	query := `
		SELECT e.id, e.from_node_id, e.to_node_id, e.polarity, e.note, e.color, e.label
		FROM edges e
		JOIN nodes n ON n.id = e.from_node_id
		JOIN graphs g ON g.id = n.graph_id
		WHERE g.owner_id = $1
		  AND ($2::bigint IS NULL OR n.graph_id = $2)
		  AND ($3::bigint IS NULL OR e.from_node_id = $3)
		  AND ($4::bigint IS NULL OR e.to_node_id = $4)
		  AND ($5::text IS NULL OR e.polarity = $5)
		ORDER BY e.id ASC
		LIMIT $6 OFFSET $7
	`

	rows, err := s.pool.Query(ctx, query,
		ownerID, filter.GraphID, filter.FromNodeID, filter.ToNodeID, polarity, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list edges: %w", err)
	}
	defer rows.Close()

	edges := make([]*graph.Edge, 0)
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}

	return edges, nil
}

// ListOutgoingEdges returns every edge leaving the node, optionally
// restricted to one polarity, in id order.
func (s *Store) ListOutgoingEdges(ctx context.Context, fromNodeID int64, polarity *graph.Polarity) ([]*graph.Edge, error) {
	var p *string
	if polarity != nil {
		v := polarity.String()
		p = &v
	}

	query := `
		SELECT ` + edgeColumns + `
		FROM edges
		WHERE from_node_id = $1
		  AND ($2::text IS NULL OR polarity = $2)
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, fromNodeID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing edges: %w", err)
	}
	defer rows.Close()

	edges := make([]*graph.Edge, 0)
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}

	return edges, nil
}
