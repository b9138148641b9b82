package postgres

import (
	"context"
	"fmt"
)

// Each relation is declared once here; nothing else registers schema. The
// setup routine applies the statements in dependency order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS graphs (
		id       BIGSERIAL PRIMARY KEY,
		title    TEXT NOT NULL,
		owner_id BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_graphs_owner ON graphs(owner_id)`,

	`CREATE TABLE IF NOT EXISTS nodes (
		id       BIGSERIAL PRIMARY KEY,
		name     TEXT NOT NULL,
		graph_id BIGINT NOT NULL REFERENCES graphs(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_graph ON nodes(graph_id)`,

	`CREATE TABLE IF NOT EXISTS edges (
		id           BIGSERIAL PRIMARY KEY,
		from_node_id BIGINT NOT NULL REFERENCES nodes(id),
		to_node_id   BIGINT NOT NULL REFERENCES nodes(id),
		polarity     TEXT NOT NULL DEFAULT 'positive'
			CHECK (polarity IN ('positive', 'neutral', 'negative')),
		note  TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_edges_triple
		ON edges(from_node_id, to_node_id, polarity)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_node_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_node_id)`,

	`CREATE TABLE IF NOT EXISTS techniques (
		id        BIGSERIAL PRIMARY KEY,
		node_id   BIGINT NOT NULL UNIQUE REFERENCES nodes(id),
		video_url TEXT NOT NULL DEFAULT '',
		steps     TEXT NOT NULL DEFAULT ''
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
