// Package index maintains the service's listing surface: every upload
// gets one entry in a single JSON document stored as a reserved object,
// because the object store itself cannot be queried.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ats-ng/scmc-video-upload-api/internal/media"
	"github.com/ats-ng/scmc-video-upload-api/internal/storage"
)

// Index rewrites the whole document on every mutation. The mutex
// serializes load-mutate-save so concurrent uploads cannot drop each
// other's entries; that only holds within a single instance.
type Index struct {
	store storage.ObjectStore
	key   string
	mu    sync.Mutex
}

func New(store storage.ObjectStore, key string) *Index {
	return &Index{store: store, key: key}
}

// Load returns the current snapshot, empty on first run.
func (ix *Index) Load(ctx context.Context) ([]media.Record, error) {
	rc, err := ix.store.Get(ctx, ix.key)
	if errors.Is(err, media.ErrNotFound) {
		return []media.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	defer rc.Close()

	records := []media.Record{}
	if err := json.NewDecoder(rc).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return records, nil
}

// Append adds a record to the index.
func (ix *Index) Append(ctx context.Context, rec media.Record) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	records, err := ix.Load(ctx)
	if err != nil {
		return err
	}
	return ix.save(ctx, append(records, rec))
}

// Remove filters out the entry with the given media id, if present.
func (ix *Index) Remove(ctx context.Context, mediaID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	records, err := ix.Load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.MediaID != mediaID {
			kept = append(kept, rec)
		}
	}
	return ix.save(ctx, kept)
}

func (ix *Index) save(ctx context.Context, records []media.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	err = ix.store.Put(ctx, storage.PutInput{
		Key:         ix.key,
		ContentType: "application/json",
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}
