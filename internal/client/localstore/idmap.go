package localstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type idMapping struct {
	Collection string `json:"collection"`
	LocalID    int64  `json:"localId"`
	ServerID   int64  `json:"serverId"`
}

// IDMap remembers which server id replaced a temporary local id.
type IDMap struct {
	backend Backend

	mu    sync.RWMutex
	cache map[string]int64
}

func NewIDMap(b Backend) *IDMap {
	return &IDMap{backend: b, cache: make(map[string]int64)}
}

// Put records that localID in collection is now serverID.
func (m *IDMap) Put(ctx context.Context, collection string, localID, serverID int64) error {
	key := mapKey(collection, localID)
	rec, err := Encode(CollectionIDMap, key, idMapping{
		Collection: collection,
		LocalID:    localID,
		ServerID:   serverID,
	})
	if err != nil {
		return err
	}
	if err := m.backend.Set(ctx, rec); err != nil {
		return err
	}

	m.mu.Lock()
	m.cache[key] = serverID
	m.mu.Unlock()
	return nil
}

// Resolve returns the server id for id, or id itself when it was never
// remapped.
func (m *IDMap) Resolve(ctx context.Context, collection string, id int64) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	key := mapKey(collection, id)

	m.mu.RLock()
	serverID, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return serverID, nil
	}

	rec, err := m.backend.Get(ctx, CollectionIDMap, key)
	if errors.Is(err, entities.ErrNotFound) {
		return id, nil
	}
	if err != nil {
		return 0, err
	}
	var mapping idMapping
	if err := rec.Decode(&mapping); err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.cache[key] = mapping.ServerID
	m.mu.Unlock()
	return mapping.ServerID, nil
}

func mapKey(collection string, id int64) string {
	return fmt.Sprintf("%s:%d", collection, id)
}
