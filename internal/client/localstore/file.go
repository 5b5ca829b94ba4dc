package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const fileFormatVersion = 1

type fileDocument struct {
	Version     int                          `json:"version"`
	Collections map[string]map[string]Record `json:"collections"`
}

// FileBackend keeps every collection in one JSON file. Each mutation
// rewrites the file through a temp file and rename.
type FileBackend struct {
	mu   sync.Mutex
	path string
	data map[string]map[string]Record
}

// OpenFile loads the store at path, creating an empty one when missing.
func OpenFile(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	b := &FileBackend{
		path: path,
		data: make(map[string]map[string]Record),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(raw) == 0 {
		return b, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}
	if doc.Version > fileFormatVersion {
		return nil, fmt.Errorf("cache file %s has unsupported version %d", path, doc.Version)
	}
	for name, recs := range doc.Collections {
		if recs != nil {
			b.data[name] = recs
		}
	}
	return b, nil
}

func (b *FileBackend) Describe() (string, string) {
	return KindFile, b.path
}

func (b *FileBackend) GetAll(_ context.Context, collection string) ([]Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	recs := b.data[collection]
	out := make([]Record, 0, len(recs))
	for _, id := range slices.Sorted(maps.Keys(recs)) {
		out = append(out, recs[id])
	}
	return out, nil
}

func (b *FileBackend) Get(_ context.Context, collection, id string) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.data[collection][id]
	if !ok {
		return Record{}, entities.ErrNotFound
	}
	return rec, nil
}

func (b *FileBackend) Set(_ context.Context, rec Record) error {
	if err := validRecord(rec); err != nil {
		return err
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	recs := b.data[rec.Collection]
	if recs == nil {
		recs = make(map[string]Record)
		b.data[rec.Collection] = recs
	}
	prev, existed := recs[rec.ID]
	recs[rec.ID] = rec

	if err := b.flushLocked(); err != nil {
		if existed {
			recs[rec.ID] = prev
		} else {
			delete(recs, rec.ID)
		}
		return err
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	recs := b.data[collection]
	prev, ok := recs[id]
	if !ok {
		return entities.ErrNotFound
	}
	delete(recs, id)

	if err := b.flushLocked(); err != nil {
		recs[id] = prev
		return err
	}
	return nil
}

func (b *FileBackend) Clear(_ context.Context, collection string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok := b.data[collection]
	if !ok {
		return nil
	}
	delete(b.data, collection)

	if err := b.flushLocked(); err != nil {
		b.data[collection] = prev
		return err
	}
	return nil
}

func (b *FileBackend) Collections(context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, len(b.data))
	for name, recs := range b.data {
		if len(recs) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (b *FileBackend) Close() error {
	return nil
}

func (b *FileBackend) flushLocked() error {
	raw, err := json.Marshal(fileDocument{
		Version:     fileFormatVersion,
		Collections: b.data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(raw); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
