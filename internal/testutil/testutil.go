// Package testutil provides shared test helpers for gateways and collaborators.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/models"
	"github.com/starford/kamiya/internal/notestore"
	"github.com/starford/kamiya/internal/storage"
)

// TestGateway creates an initialized database in a temporary directory.
func TestGateway(t *testing.T) *storage.FS {
	t.Helper()
	gw, err := storage.NewFS(filepath.Join(t.TempDir(), "kamiya"), "database.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := gw.EnsureInitialized(); err != nil {
		t.Fatal(err)
	}
	return gw
}

// Seed saves notes into the gateway, keeping default options.
func Seed(t *testing.T, gw storage.Gateway, notes ...models.Note) {
	t.Helper()
	doc := models.NewDocument()
	doc.Notes = append(doc.Notes, notes...)
	if err := gw.Save(notestore.New(doc)); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the raw bytes of path.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// FakeClipboard is an in-memory clipboard.Provider.
type FakeClipboard struct {
	Text string
	Err  error
}

// Name implements clipboard.Provider.
func (c *FakeClipboard) Name() string { return "fake" }

// Set implements clipboard.Provider.
func (c *FakeClipboard) Set(_ context.Context, text string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Text = text
	return nil
}

// Get implements clipboard.Provider.
func (c *FakeClipboard) Get(_ context.Context) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	return c.Text, nil
}

// FakeEditor is an editor.Runner that replaces the file content with Write,
// or fails with ErrExternalProcess when Fail is set.
type FakeEditor struct {
	Write string
	Fail  bool
	Path  string // file given to the last Run
}

// Run implements editor.Runner.
func (e *FakeEditor) Run(_ context.Context, _, path string) error {
	e.Path = path
	if e.Fail {
		return apperr.ErrExternalProcess
	}
	return os.WriteFile(path, []byte(e.Write), 0o644)
}
