package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matslogic/matslogic/pkg/logging"
)

// Sink stores an encoded snapshot under a key.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Key builds the canonical object key for an owner's snapshot.
func Key(ownerID int64, at time.Time) string {
	return fmt.Sprintf("exports/%d/%s.json.sz", ownerID, at.UTC().Format("20060102T150405Z"))
}

// DirSink writes snapshots to a local directory, mirroring the object key
// as a relative path.
type DirSink struct {
	Root string
}

func (d DirSink) Put(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(d.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Run builds, encodes, and stores one snapshot, returning the key it was
// stored under.
func (e *Exporter) Run(ctx context.Context, ownerID int64, sink Sink) (string, error) {
	snap, err := e.Build(ctx, ownerID)
	if err != nil {
		return "", err
	}
	data, err := Encode(snap)
	if err != nil {
		return "", err
	}
	key := Key(ownerID, snap.ExportedAt)
	if err := sink.Put(ctx, key, data); err != nil {
		return "", err
	}
	e.log.Info("snapshot stored",
		logging.String("key", key),
		logging.Int("bytes", len(data)))
	return key, nil
}
