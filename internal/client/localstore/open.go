package localstore

import (
	"log"
	"path/filepath"
	"strings"
)

// Open returns the database backend at path, or a file backend next to it
// when the embedded database cannot be opened.
func Open(path string) (Backend, error) {
	db, err := OpenDB(path)
	if err == nil {
		return db, nil
	}

	fallback := FallbackPath(path)
	log.Printf("Local store: embedded database unavailable (%v), using %s", err, fallback)
	return OpenFile(fallback)
}

// FallbackPath is the JSON file used when the database at path fails.
func FallbackPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}
