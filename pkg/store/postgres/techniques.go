package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matslogic/matslogic/pkg/graph"
)

// CreateTechnique attaches a technique to a node. The unique index on
// node_id reports a second attach as a conflict instead of overwriting.
func (s *Store) CreateTechnique(ctx context.Context, nodeID int64, videoURL, steps string) (*graph.Technique, error) {
	query := `
		INSERT INTO techniques (node_id, video_url, steps)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	t := &graph.Technique{NodeID: nodeID, VideoURL: videoURL, Steps: steps}
	err := s.pool.QueryRow(ctx, query, nodeID, videoURL, steps).Scan(&t.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create technique: %w", err)
	}

	return t, nil
}

// GetTechniqueByNode retrieves the node's technique.
func (s *Store) GetTechniqueByNode(ctx context.Context, nodeID int64) (*graph.Technique, error) {
	query := `
		SELECT id, node_id, video_url, steps
		FROM techniques
		WHERE node_id = $1
	`

	t := &graph.Technique{}
	err := s.pool.QueryRow(ctx, query, nodeID).Scan(&t.ID, &t.NodeID, &t.VideoURL, &t.Steps)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technique: %w", err)
	}

	return t, nil
}

// UpdateTechnique applies a partial update; only supplied fields change.
func (s *Store) UpdateTechnique(ctx context.Context, nodeID int64, patch graph.TechniquePatch) (*graph.Technique, error) {
	sets := make([]string, 0, 2)
	args := []any{nodeID}

	if patch.VideoURL != nil {
		args = append(args, *patch.VideoURL)
		sets = append(sets, fmt.Sprintf("video_url = $%d", len(args)))
	}
	if patch.Steps != nil {
		args = append(args, *patch.Steps)
		sets = append(sets, fmt.Sprintf("steps = $%d", len(args)))
	}
	if len(sets) == 0 {
		return s.GetTechniqueByNode(ctx, nodeID)
	}

	query := `UPDATE techniques SET ` + strings.Join(sets, ", ") +
		` WHERE node_id = $1 RETURNING id, node_id, video_url, steps`

	t := &graph.Technique{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(&t.ID, &t.NodeID, &t.VideoURL, &t.Steps)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update technique: %w", err)
	}

	return t, nil
}

// DeleteTechniqueByNode removes the node's technique.
func (s *Store) DeleteTechniqueByNode(ctx context.Context, nodeID int64) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM techniques WHERE node_id = $1`, nodeID)
	if err != nil {
		return fmt.Errorf("failed to delete technique: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("technique for node %d: %w", nodeID, graph.ErrNotFound)
	}
	return nil
}
