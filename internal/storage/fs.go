package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/models"
	"github.com/starford/kamiya/internal/notestore"
)

// FS implements Gateway backed by a single file on the local file system.
type FS struct {
	dir    string // absolute path to the data directory
	path   string // absolute path to the database file
	format Format
	logger *slog.Logger
}

// NewFS creates a gateway for dir/file. Neither needs to exist yet; see
// EnsureInitialized.
func NewFS(dir, file string, logger *slog.Logger) (*FS, error) {
	if dir == "" || file == "" {
		return nil, fmt.Errorf("storage: dir and file are required: %w", apperr.ErrInvalidInput)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(abs, file)
	return &FS{
		dir:    abs,
		path:   path,
		format: FormatFromPath(path),
		logger: logger,
	}, nil
}

// Path returns the absolute path of the database file.
func (f *FS) Path() string {
	return f.path
}

// EnsureInitialized creates the data directory and writes an empty database
// with default options when the file does not exist. It is a no-op otherwise.
func (f *FS) EnsureInitialized() error {
	info, err := os.Stat(f.path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("storage: %s is a directory: %w", f.path, apperr.ErrStorageIO)
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("storage: stat %s: %w: %w", f.path, apperr.ErrStorageIO, err)
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w: %w", apperr.ErrStorageIO, err)
	}
	f.logger.Debug("storage: creating default database", slog.String("path", f.path))
	return f.Save(notestore.New(models.NewDocument()))
}

// Load reads and decodes the database file. A missing or malformed file is an error.
func (f *FS) Load() (*notestore.Store, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w: %w", f.path, apperr.ErrStorageIO, err)
	}
	doc, err := Decode(f.format, data)
	if err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w: %w", f.path, apperr.ErrStorageIO, err)
	}
	f.logger.Debug("storage: loaded", slog.String("path", f.path), slog.Int("notes", len(doc.Notes)))
	return notestore.New(doc), nil
}

// Save encodes the full store and replaces the database file atomically.
func (f *FS) Save(store *notestore.Store) error {
	data, err := Encode(f.format, store.Document())
	if err != nil {
		return fmt.Errorf("storage: %w: %w", apperr.ErrStorageIO, err)
	}
	if err := writeAtomic(f.path, data); err != nil {
		return err
	}
	f.logger.Debug("storage: saved", slog.String("path", f.path), slog.Int("notes", store.Count()))
	return nil
}

// ReadDocument reads a document from an arbitrary file, choosing the codec by extension.
func ReadDocument(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("storage: read %s: %w: %w", path, apperr.ErrStorageIO, err)
	}
	doc, err := Decode(FormatFromPath(path), data)
	if err != nil {
		return models.Document{}, fmt.Errorf("storage: parse %s: %w: %w", path, apperr.ErrStorageIO, err)
	}
	return doc, nil
}

// WriteDocument writes doc to a new file at path, choosing the codec by
// extension. An existing file is never overwritten.
func WriteDocument(path string, doc models.Document) error {
	data, err := Encode(FormatFromPath(path), doc)
	if err != nil {
		return fmt.Errorf("storage: %w: %w", apperr.ErrStorageIO, err)
	}
	return WriteNewFile(path, data)
}

// WriteNewFile creates path and writes data to it. It fails with
// apperr.ErrAlreadyExists if the file is already there.
func WriteNewFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("storage: %s: %w", path, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("storage: create %s: %w: %w", path, apperr.ErrStorageIO, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("storage: write %s: %w: %w", path, apperr.ErrStorageIO, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w: %w", path, apperr.ErrStorageIO, err)
	}
	return nil
}

// writeAtomic writes content: tmp file → fsync → rename.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w: %w", apperr.ErrStorageIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".kamiya-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w: %w", apperr.ErrStorageIO, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w: %w", apperr.ErrStorageIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w: %w", apperr.ErrStorageIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w: %w", apperr.ErrStorageIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w: %w", apperr.ErrStorageIO, err)
	}
	success = true
	return nil
}
