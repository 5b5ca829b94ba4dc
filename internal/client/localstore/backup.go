package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

const backupVersion = 1

// ErrUnsupportedBackup is returned by Restore for unknown snapshot versions.
var ErrUnsupportedBackup = errors.New("unsupported backup format")

// Snapshot is the backup document. Credentials are never included.
type Snapshot struct {
	Version     int                 `json:"version"`
	BackupID    string              `json:"backupId"`
	CreatedAt   time.Time           `json:"createdAt"`
	Collections map[string][]Record `json:"collections"`
}

// BackupInfo describes a written or restored snapshot.
type BackupInfo struct {
	BackupID    string
	CreatedAt   time.Time
	Collections int
	Records     int
}

// Backup writes every collection except auth to w as one JSON document.
func Backup(ctx context.Context, b Backend, w io.Writer) (BackupInfo, error) {
	names, err := b.Collections(ctx)
	if err != nil {
		return BackupInfo{}, err
	}

	snap := Snapshot{
		Version:     backupVersion,
		BackupID:    uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Collections: make(map[string][]Record, len(names)),
	}
	info := BackupInfo{BackupID: snap.BackupID, CreatedAt: snap.CreatedAt}

	for _, name := range names {
		if name == CollectionAuth {
			continue
		}
		recs, err := b.GetAll(ctx, name)
		if err != nil {
			return BackupInfo{}, err
		}
		snap.Collections[name] = recs
		info.Collections++
		info.Records += len(recs)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to write backup: %w", err)
	}
	return info, nil
}

// Restore replaces each collection present in the snapshot. Collections
// absent from the snapshot and the auth collection are left untouched.
func Restore(ctx context.Context, b Backend, r io.Reader) (BackupInfo, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return BackupInfo{}, fmt.Errorf("failed to read backup: %w", err)
	}
	if snap.Version != backupVersion {
		return BackupInfo{}, fmt.Errorf("%w: version %d", ErrUnsupportedBackup, snap.Version)
	}

	info := BackupInfo{BackupID: snap.BackupID, CreatedAt: snap.CreatedAt}
	for name, recs := range snap.Collections {
		if name == CollectionAuth {
			continue
		}
		if err := b.Clear(ctx, name); err != nil {
			return info, err
		}
		for _, rec := range recs {
			rec.Collection = name
			if err := b.Set(ctx, rec); err != nil {
				return info, err
			}
		}
		info.Collections++
		info.Records += len(recs)
	}
	return info, nil
}

// CollectionUsage counts one collection.
type CollectionUsage struct {
	Records int   `json:"records"`
	Pending int   `json:"pending"`
	Bytes   int64 `json:"bytes"`
}

// Usage reports what the cache holds.
type Usage struct {
	Backend      string                     `json:"backend"`
	Path         string                     `json:"path"`
	FileBytes    int64                      `json:"fileBytes"`
	Collections  map[string]CollectionUsage `json:"collections"`
	TotalRecords int                        `json:"totalRecords"`
	TotalPending int                        `json:"totalPending"`
	TotalBytes   int64                      `json:"totalBytes"`
}

// StorageUsage counts records, pending changes and payload bytes per
// collection.
func StorageUsage(ctx context.Context, b Backend) (Usage, error) {
	u := Usage{Collections: make(map[string]CollectionUsage)}
	if d, ok := b.(describer); ok {
		u.Backend, u.Path = d.Describe()
		if fi, err := os.Stat(u.Path); err == nil {
			u.FileBytes = fi.Size()
		}
	}

	names, err := b.Collections(ctx)
	if err != nil {
		return Usage{}, err
	}
	for _, name := range names {
		recs, err := b.GetAll(ctx, name)
		if err != nil {
			return Usage{}, err
		}
		var cu CollectionUsage
		for _, rec := range recs {
			cu.Records++
			cu.Bytes += int64(len(rec.Data))
			if pending(rec) {
				cu.Pending++
			}
		}
		u.Collections[name] = cu
		u.TotalRecords += cu.Records
		u.TotalPending += cu.Pending
		u.TotalBytes += cu.Bytes
	}
	return u, nil
}

func pending(rec Record) bool {
	var probe struct {
		Meta models.Meta `json:"_sync"`
	}
	if json.Unmarshal(rec.Data, &probe) != nil {
		return false
	}
	return probe.Meta.SyncPending()
}
