package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/matslogic/matslogic/pkg/events"
	"github.com/matslogic/matslogic/pkg/logging"
)

// MaxTitleLength bounds graph titles and node names.
const MaxTitleLength = 200

func validateTitle(op, field, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid(op, field, fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, field))
	}
	if len(title) > MaxTitleLength {
		return invalid(op, field, fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidArgument, field, MaxTitleLength))
	}
	return nil
}

// CreateGraph creates a graph owned by the caller. Titles need not be unique.
func (s *Service) CreateGraph(ctx context.Context, callerID int64, title string) (*Graph, error) {
	const op = "CreateGraph"
	if err := validateTitle(op, "title", title); err != nil {
		return nil, err
	}

	g, err := s.store.CreateGraph(ctx, callerID, strings.TrimSpace(title))
	if err != nil {
		return nil, opErr(op, "graph", 0, err)
	}

	s.log.Info("graph created", logging.GraphID(g.ID), logging.UserID(callerID))
	s.publish(events.ActionCreated, "graph", g.ID, g.ID, callerID)
	return g, nil
}

// GetGraph returns the graph when the caller owns it.
func (s *Service) GetGraph(ctx context.Context, callerID, graphID int64) (*Graph, error) {
	return s.ownedGraph(ctx, "GetGraph", callerID, graphID)
}

// ListGraphs returns the caller's graphs ordered by id ascending.
func (s *Service) ListGraphs(ctx context.Context, callerID int64, limit, offset int) ([]*Graph, error) {
	const op = "ListGraphs"
	limit, offset, err := clampPage(op, limit, offset, GraphPageCeiling)
	if err != nil {
		return nil, err
	}

	graphs, err := s.store.ListGraphsByOwner(ctx, callerID, limit, offset)
	if err != nil {
		return nil, opErr(op, "graph", 0, err)
	}
	return graphs, nil
}

// RenameGraph updates the graph's title.
func (s *Service) RenameGraph(ctx context.Context, callerID, graphID int64, title string) (*Graph, error) {
	const op = "RenameGraph"
	if err := validateTitle(op, "title", title); err != nil {
		return nil, err
	}

	g, err := s.ownedGraph(ctx, op, callerID, graphID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateGraphTitle(ctx, graphID, strings.TrimSpace(title)); err != nil {
		if IsNotFound(err) {
			return nil, notFound(op, "graph", graphID)
		}
		return nil, opErr(op, "graph", graphID, err)
	}
	g.Title = strings.TrimSpace(title)

	s.publish(events.ActionUpdated, "graph", g.ID, g.ID, callerID)
	return g, nil
}

// DeleteGraph removes the graph together with all of its nodes, edges, and
// techniques as one atomic unit. Orphaned-but-present nodes never survive a
// graph deletion.
func (s *Service) DeleteGraph(ctx context.Context, callerID, graphID int64) error {
	const op = "DeleteGraph"
	if _, err := s.ownedGraph(ctx, op, callerID, graphID); err != nil {
		return err
	}

	if err := s.store.DeleteGraphCascade(ctx, graphID); err != nil {
		if IsNotFound(err) {
			return notFound(op, "graph", graphID)
		}
		return opErr(op, "graph", graphID, err)
	}

	s.log.Info("graph deleted", logging.GraphID(graphID), logging.UserID(callerID))
	s.publish(events.ActionDeleted, "graph", graphID, graphID, callerID)
	return nil
}
