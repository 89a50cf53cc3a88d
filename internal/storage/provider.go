// Package storage persists the note store to a single structured file.
package storage

import "github.com/starford/kamiya/internal/notestore"

// Gateway loads and saves the whole store.
type Gateway interface {
	// EnsureInitialized creates the directory and a default database if absent.
	EnsureInitialized() error
	// Load reads and decodes the database file.
	Load() (*notestore.Store, error)
	// Save encodes the store and atomically replaces the database file.
	Save(store *notestore.Store) error
	// Path returns the absolute path of the database file.
	Path() string
}
