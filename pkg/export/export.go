// Package export produces portable snapshots of an account's graphs. A
// snapshot carries every graph the account owns together with its nodes,
// edges, and technique attachments, serialized as JSON and compressed with
// snappy.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"

	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/logging"
)

// Snapshot is the top-level export document.
type Snapshot struct {
	Version    int           `json:"version"`
	OwnerID    int64         `json:"owner_id"`
	ExportedAt time.Time     `json:"exported_at"`
	Graphs     []*GraphDump  `json:"graphs"`
}

// GraphDump holds one graph with all of its contents.
type GraphDump struct {
	Graph      *graph.Graph       `json:"graph"`
	Nodes      []*graph.Node      `json:"nodes"`
	Edges      []*graph.Edge      `json:"edges"`
	Techniques []*graph.Technique `json:"techniques"`
}

// SnapshotVersion is bumped whenever the document layout changes.
const SnapshotVersion = 1

// Exporter walks the service on behalf of one owner and assembles snapshots.
type Exporter struct {
	svc *graph.Service
	log logging.Logger
}

// NewExporter creates an exporter over the given service.
func NewExporter(svc *graph.Service, log logging.Logger) *Exporter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Exporter{svc: svc, log: log}
}

// Build assembles a snapshot of every graph the owner holds. Listing goes
// through the service, so pagination ceilings apply; Build pages until the
// store is exhausted.
func (e *Exporter) Build(ctx context.Context, ownerID int64) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    SnapshotVersion,
		OwnerID:    ownerID,
		ExportedAt: time.Now().UTC(),
	}

	graphs, err := e.collectGraphs(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	for _, g := range graphs {
		dump, err := e.dumpGraph(ctx, ownerID, g)
		if err != nil {
			return nil, fmt.Errorf("failed to dump graph %d: %w", g.ID, err)
		}
		snap.Graphs = append(snap.Graphs, dump)
	}

	e.log.Info("snapshot assembled",
		logging.UserID(ownerID),
		logging.Count(len(snap.Graphs)))
	return snap, nil
}

func (e *Exporter) collectGraphs(ctx context.Context, ownerID int64) ([]*graph.Graph, error) {
	var all []*graph.Graph
	for offset := 0; ; offset += graph.GraphPageCeiling {
		page, err := e.svc.ListGraphs(ctx, ownerID, graph.GraphPageCeiling, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < graph.GraphPageCeiling {
			return all, nil
		}
	}
}

func (e *Exporter) dumpGraph(ctx context.Context, ownerID int64, g *graph.Graph) (*GraphDump, error) {
	dump := &GraphDump{Graph: g}

	for offset := 0; ; offset += graph.NodePageCeiling {
		page, err := e.svc.ListNodes(ctx, ownerID, &g.ID, graph.NodePageCeiling, offset)
		if err != nil {
			return nil, err
		}
		dump.Nodes = append(dump.Nodes, page...)
		if len(page) < graph.NodePageCeiling {
			break
		}
	}

	filter := graph.EdgeFilter{GraphID: &g.ID}
	for offset := 0; ; offset += graph.EdgePageCeiling {
		page, err := e.svc.ListEdges(ctx, ownerID, filter, graph.EdgePageCeiling, offset)
		if err != nil {
			return nil, err
		}
		dump.Edges = append(dump.Edges, page...)
		if len(page) < graph.EdgePageCeiling {
			break
		}
	}

	for _, n := range dump.Nodes {
		t, err := e.svc.GetTechnique(ctx, ownerID, n.ID)
		if graph.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		dump.Techniques = append(dump.Techniques, t)
	}

	return dump, nil
}

// Encode serializes a snapshot to snappy-compressed JSON.
func Encode(snap *Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*Snapshot, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
