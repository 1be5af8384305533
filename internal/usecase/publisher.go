package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// SnapshotStore persists snapshot content with optimistic concurrency.
type SnapshotStore interface {
	// ReadVersion returns the current version token, or "" if nothing is stored yet.
	ReadVersion(ctx context.Context, path string) (string, error)
	WriteSnapshot(ctx context.Context, path string, content []byte, version string, meta domain.CommitMetadata) error
}

// MarshalSnapshot renders the snapshot as indented JSON with a trailing newline.
func MarshalSnapshot(snap *domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Publisher writes rendered snapshots to a SnapshotStore.
type Publisher struct {
	store  SnapshotStore
	logger *logrus.Logger
}

// NewPublisher creates a new Publisher instance.
func NewPublisher(store SnapshotStore, logger *logrus.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Publish replaces the snapshot at path with content.
// The version read before the write guards against concurrent writers; a
// mismatch is returned as domain.ErrPersistenceConflict and nothing is overwritten.
func (p *Publisher) Publish(ctx context.Context, path string, content []byte, meta domain.CommitMetadata) error {
	version, err := p.store.ReadVersion(ctx, path)
	if err != nil {
		return err
	}
	p.logger.WithFields(logrus.Fields{"path": path, "version": version}).Info("Committing snapshot...")
	return p.store.WriteSnapshot(ctx, path, content, version, meta)
}
