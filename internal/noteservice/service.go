// Package noteservice implements one operation per CLI command. Every call is
// a complete load → mutate → save cycle against the storage gateway; a failed
// call leaves the database file untouched.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/checksum"
	"github.com/starford/kamiya/internal/clipboard"
	"github.com/starford/kamiya/internal/editor"
	"github.com/starford/kamiya/internal/models"
	"github.com/starford/kamiya/internal/notestore"
	"github.com/starford/kamiya/internal/parser"
	"github.com/starford/kamiya/internal/storage"
)

// Service coordinates the store, its gateway and the external collaborators.
type Service struct {
	gw      storage.Gateway
	clip    clipboard.Provider
	runner  editor.Runner
	tempDir string
	getenv  func(string) string
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClipboard sets the clipboard provider used by Copy and Insert.
func WithClipboard(p clipboard.Provider) Option {
	return func(s *Service) { s.clip = p }
}

// WithEditorRunner sets how the external editor is launched.
func WithEditorRunner(r editor.Runner) Option {
	return func(s *Service) { s.runner = r }
}

// WithTempDir sets where edit buffers are created.
func WithTempDir(dir string) Option {
	return func(s *Service) { s.tempDir = dir }
}

// WithGetenv overrides environment lookup (used for $EDITOR).
func WithGetenv(fn func(string) string) Option {
	return func(s *Service) { s.getenv = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new note service.
func NewService(gw storage.Gateway, opts ...Option) *Service {
	s := &Service{
		gw:     gw,
		runner: editor.NewExecRunner(),
		getenv: os.Getenv,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// update loads the store, applies fn and saves the result if fn succeeds.
func (s *Service) update(op string, fn func(*notestore.Store) error) error {
	store, err := s.gw.Load()
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	if err := s.gw.Save(store); err != nil {
		return err
	}
	s.logger.Debug("note service: saved", slog.String("op", op), slog.Int("notes", store.Count()))
	return nil
}

// Take creates a note from text. An empty name is generated from the template.
func (s *Service) Take(_ context.Context, content, name, description string) (models.Note, error) {
	if content == "" {
		return models.Note{}, fmt.Errorf("note content is empty: %w", apperr.ErrInvalidInput)
	}
	var note models.Note
	err := s.update("take", func(store *notestore.Store) error {
		var err error
		note, err = insertNote(store, name, content, description)
		return err
	})
	return note, err
}

// Add creates a note from the contents of a file.
//
// The name comes from, in order: the name argument, a "name" or "title" key in
// the file's YAML frontmatter, the file name without extension. Frontmatter is
// stripped from the stored content and its "description" key is kept.
func (s *Service) Add(_ context.Context, filename, name string) (models.Note, error) {
	if filename == "" {
		return models.Note{}, fmt.Errorf("no file given: %w", apperr.ErrInvalidInput)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return models.Note{}, fmt.Errorf("read %s: %w: %w", filename, apperr.ErrStorageIO, err)
	}
	res := parser.Parse(data)
	if name == "" {
		name = res.Name
	}
	if name == "" {
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var note models.Note
	err = s.update("add", func(store *notestore.Store) error {
		note = models.Note{Name: name, Content: res.Body, Description: res.Description}
		return store.Insert(note)
	})
	return note, err
}

// Insert creates a note from the clipboard text.
func (s *Service) Insert(ctx context.Context, name string) (models.Note, error) {
	if s.clip == nil {
		return models.Note{}, fmt.Errorf("no clipboard available: %w", apperr.ErrExternalProcess)
	}
	text, err := s.clip.Get(ctx)
	if err != nil {
		return models.Note{}, err
	}
	if text == "" {
		return models.Note{}, fmt.Errorf("clipboard is empty: %w", apperr.ErrInvalidInput)
	}
	var note models.Note
	err = s.update("insert", func(store *notestore.Store) error {
		var err error
		note, err = insertNote(store, name, text, "")
		return err
	})
	return note, err
}

func insertNote(store *notestore.Store, name, content, description string) (models.Note, error) {
	if name == "" {
		generated, err := store.GenerateName(store.Options().NameTemplate)
		if err != nil {
			return models.Note{}, err
		}
		name = generated
	}
	note := models.Note{Name: name, Content: content, Description: description}
	if err := store.Insert(note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Describe sets a note's description.
func (s *Service) Describe(_ context.Context, name, description string) error {
	return s.update("desc", func(store *notestore.Store) error {
		return store.SetDescription(name, description)
	})
}

// Rename changes a note's name.
func (s *Service) Rename(_ context.Context, oldName, newName string) error {
	return s.update("rename", func(store *notestore.Store) error {
		return store.Rename(oldName, newName)
	})
}

// Remove deletes a note.
func (s *Service) Remove(_ context.Context, name string) error {
	return s.update("rm", func(store *notestore.Store) error {
		return store.Remove(name)
	})
}

// Options returns the stored options.
func (s *Service) Options(_ context.Context) (models.Options, error) {
	store, err := s.gw.Load()
	if err != nil {
		return models.Options{}, err
	}
	return store.Options(), nil
}

// SetEditor stores the editor executable.
func (s *Service) SetEditor(_ context.Context, editorName string) error {
	if strings.TrimSpace(editorName) == "" {
		return fmt.Errorf("editor is empty: %w", apperr.ErrInvalidInput)
	}
	return s.update("editor", func(store *notestore.Store) error {
		store.SetEditor(editorName)
		return nil
	})
}

// SetTemplate stores the name template.
func (s *Service) SetTemplate(_ context.Context, template string) error {
	return s.update("template", func(store *notestore.Store) error {
		return store.SetTemplate(template)
	})
}

// List returns every note in insertion order.
func (s *Service) List(_ context.Context) ([]models.Note, error) {
	store, err := s.gw.Load()
	if err != nil {
		return nil, err
	}
	return store.All(), nil
}

// Search returns the notes whose name contains pattern.
func (s *Service) Search(_ context.Context, pattern string) ([]models.Note, error) {
	store, err := s.gw.Load()
	if err != nil {
		return nil, err
	}
	return store.Search(pattern), nil
}

// Get returns a single note.
func (s *Service) Get(_ context.Context, name string) (models.Note, error) {
	store, err := s.gw.Load()
	if err != nil {
		return models.Note{}, err
	}
	return store.Find(name)
}

// SaveToFile writes a note's content to filename, or to "<slug of name>.txt"
// when filename is empty. Existing files are never overwritten.
func (s *Service) SaveToFile(ctx context.Context, name, filename string) (string, error) {
	note, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	if filename == "" {
		base := slug.Make(name)
		if base == "" {
			base = "note"
		}
		filename = base + ".txt"
	}
	if err := storage.WriteNewFile(filename, []byte(note.Content)); err != nil {
		return "", err
	}
	return filename, nil
}

// Edit opens a note in the configured editor (or $EDITOR) and stores the result.
func (s *Service) Edit(ctx context.Context, name string) error {
	return s.update("edit", func(store *notestore.Store) error {
		note, err := store.Find(name)
		if err != nil {
			return err
		}
		editorName := store.Options().Editor
		if editorName == "" {
			editorName = s.getenv("EDITOR")
		}
		if editorName == "" {
			return fmt.Errorf("no editor set; use the editor command or $EDITOR: %w", apperr.ErrInvalidInput)
		}
		s.logger.Debug("note service: launching editor", slog.String("editor", editorName), slog.String("note", name))
		content, err := editor.Edit(ctx, s.runner, editorName, s.tempDir, name, note.Content)
		if err != nil {
			return err
		}
		return store.SetContent(name, content)
	})
}

// Copy puts a note's content on the clipboard.
func (s *Service) Copy(ctx context.Context, name string) error {
	if s.clip == nil {
		return fmt.Errorf("no clipboard available: %w", apperr.ErrExternalProcess)
	}
	note, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	return s.clip.Set(ctx, note.Content)
}

// Export writes the whole database to path. The format follows the extension.
func (s *Service) Export(_ context.Context, path string) error {
	store, err := s.gw.Load()
	if err != nil {
		return err
	}
	return storage.WriteDocument(path, store.Document())
}

// StorageInfo describes the database file.
type StorageInfo struct {
	Path     string
	Size     int64
	Notes    int
	Checksum string
}

// Info returns details about the database file.
func (s *Service) Info(_ context.Context) (*StorageInfo, error) {
	store, err := s.gw.Load()
	if err != nil {
		return nil, err
	}
	sum, size, err := checksum.File(s.gw.Path())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrStorageIO, err)
	}
	return &StorageInfo{
		Path:     s.gw.Path(),
		Size:     size,
		Notes:    store.Count(),
		Checksum: sum,
	}, nil
}
