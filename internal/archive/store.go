// Package archive keeps a write-only history of successful snapshots. Nothing
// here is read back to serve the dashboard.
package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"boxoffice/internal/types"
	"boxoffice/internal/util/jsonutil"
)

// Store defines operations for persisting archived snapshots.
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	List(ctx context.Context) ([]string, error)
}

var ErrEmptyKey = errors.New("archive: key is required")

const (
	keyPrefix = "snapshots/"
	// fixed-width fraction keeps keys in fetch order when listed lexically
	keyTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// SnapshotKey names the object for a snapshot fetched at t. seq separates
// snapshots stamped with the same instant.
func SnapshotKey(t time.Time, seq uint64) string {
	return fmt.Sprintf("%s%s-%06d.json", keyPrefix, t.UTC().Format(keyTimeLayout), seq)
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}

// Writer serialises snapshots into a Store.
type Writer struct {
	store Store
	seq   atomic.Uint64
}

func NewWriter(store Store) *Writer { return &Writer{store: store} }

func (w *Writer) Store() Store { return w.store }

func (w *Writer) Archive(ctx context.Context, snap *types.Snapshot) error {
	if w == nil || w.store == nil {
		return fmt.Errorf("archive: store is nil")
	}
	if snap == nil {
		return fmt.Errorf("archive: snapshot is nil")
	}
	b, err := jsonutil.MarshalNoEscapeIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("archive: encode snapshot: %w", err)
	}
	key := SnapshotKey(snap.FetchedAt, w.seq.Add(1))
	if err := w.store.Put(ctx, key, b); err != nil {
		return fmt.Errorf("archive: put %s: %w", key, err)
	}
	return nil
}
