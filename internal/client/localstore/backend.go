// Package localstore is the on-device cache of the FocusMode client.
//
// Records are grouped into collections (sessions, notes, books, timers plus
// the idmap and auth bookkeeping collections) and kept ordered by key. The
// primary Backend is an embedded SQLite database accessed through gorm; when
// that database cannot be opened, Open falls back to a single JSON file.
//
// # Usage
//
//	backend, err := localstore.Open("./focusmode-client.db")
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	rec, err := localstore.Encode(models.CollectionNotes, "42", note)
//	err = backend.Set(ctx, rec)
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Bookkeeping collections.
const (
	CollectionIDMap = "idmap"
	CollectionAuth  = "auth"
)

// Record is one cached value. Data holds the JSON encoding of the value.
type Record struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Backend is a key-ordered, per-collection record store. Get, Set and
// Delete address one record; GetAll returns a collection ordered by key and
// never fails for an empty or unknown collection. Get and Delete return
// entities.ErrNotFound for a missing record.
type Backend interface {
	GetAll(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Set(ctx context.Context, rec Record) error
	Delete(ctx context.Context, collection, id string) error
	Clear(ctx context.Context, collection string) error
	Collections(ctx context.Context) ([]string, error)
	Close() error
}

// Kinds reported by Describe.
const (
	KindDatabase = "sqlite"
	KindFile     = "file"
)

type describer interface {
	Describe() (kind, path string)
}

// Encode builds a record from v.
func Encode(collection, id string, v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	return Record{
		Collection: collection,
		ID:         id,
		Data:       data,
		UpdatedAt:  time.Now(),
	}, nil
}

// Decode unmarshals the record's data into v.
func (r Record) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", r.Collection, r.ID, err)
	}
	return nil
}

func validRecord(rec Record) error {
	if rec.Collection == "" || rec.ID == "" {
		return fmt.Errorf("record needs a collection and an id")
	}
	if !json.Valid(rec.Data) {
		return fmt.Errorf("record %s/%s holds invalid JSON", rec.Collection, rec.ID)
	}
	return nil
}
