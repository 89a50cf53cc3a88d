package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/models"
	"github.com/starford/kamiya/internal/notestore"
)

func tempGateway(t *testing.T) *FS {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "kamiya")
	gw, err := NewFS(dir, "database.yaml", nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return gw
}

func sampleDocument() models.Document {
	return models.Document{
		Options: models.Options{NameTemplate: "Memo&i", Editor: "vim"},
		Notes: []models.Note{
			{Name: "b", Content: "second in name order, first inserted"},
			{Name: "a", Content: "multi\nline\n", Description: "with desc"},
			{Name: "c", Content: "quotes \" and: colons"},
		},
	}
}

func TestEnsureInitializedCreatesDefault(t *testing.T) {
	gw := tempGateway(t)
	if err := gw.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	store, err := gw.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("count = %d, want 0", store.Count())
	}
	if diff := cmp.Diff(models.DefaultOptions(), store.Options()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	gw := tempGateway(t)
	if err := gw.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	store := notestore.New(sampleDocument())
	if err := gw.Save(store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, _ := os.ReadFile(gw.Path())

	if err := gw.EnsureInitialized(); err != nil {
		t.Fatalf("second EnsureInitialized: %v", err)
	}
	after, _ := os.ReadFile(gw.Path())
	if !bytes.Equal(before, after) {
		t.Error("EnsureInitialized rewrote an existing database")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	gw := tempGateway(t)
	want := sampleDocument()
	if err := gw.Save(notestore.New(want)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store, err := gw.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, store.Document()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	gw := tempGateway(t)
	_, err := gw.Load()
	if !errors.Is(err, apperr.ErrStorageIO) {
		t.Fatalf("err = %v, want ErrStorageIO", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	gw := tempGateway(t)
	if err := os.MkdirAll(filepath.Dir(gw.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(gw.Path(), []byte("notes: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := gw.Load()
	if !errors.Is(err, apperr.ErrStorageIO) {
		t.Fatalf("err = %v, want ErrStorageIO", err)
	}
}

func TestLoadMissingDescriptionDefaultsEmpty(t *testing.T) {
	gw := tempGateway(t)
	_ = os.MkdirAll(filepath.Dir(gw.Path()), 0o755)
	raw := "options:\n  name_template: Note&i\n  editor: nano\nnotes:\n  - name: old\n    content: from 0.5\n"
	if err := os.WriteFile(gw.Path(), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := gw.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	note, err := store.Find("old")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if note.Description != "" {
		t.Errorf("description = %q, want empty", note.Description)
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	gw := tempGateway(t)
	if err := gw.EnsureInitialized(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Save(notestore.New(sampleDocument())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(gw.Path()), ".kamiya-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestDocumentFormats(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "export"+ext)
			want := sampleDocument()
			if err := WriteDocument(path, want); err != nil {
				t.Fatalf("WriteDocument: %v", err)
			}
			got, err := ReadDocument(path)
			if err != nil {
				t.Fatalf("ReadDocument: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteDocumentRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := os.WriteFile(path, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := WriteDocument(path, sampleDocument())
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "keep me" {
		t.Errorf("existing file modified: %q", got)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"db.yaml": FormatYAML,
		"db.YML":  FormatYAML,
		"db.toml": FormatTOML,
		"db.json": FormatJSON,
		"db":      FormatYAML,
		"db.txt":  FormatYAML,
	}
	for path, want := range cases {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestMigrateLegacy(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "kamiya.yaml")
	content := []byte("notes:\n  - name: legacy\n    content: hi\n")
	if err := os.WriteFile(legacy, content, 0o644); err != nil {
		t.Fatal(err)
	}

	backup, err := MigrateLegacy(legacy)
	if err != nil {
		t.Fatalf("MigrateLegacy: %v", err)
	}
	if backup != legacy+".bak" {
		t.Errorf("backup = %q", backup)
	}
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Error("legacy file should be removed")
	}
	doc, err := ReadDocument(backup)
	if err != nil {
		t.Fatalf("backup not importable: %v", err)
	}
	if len(doc.Notes) != 1 || doc.Notes[0].Name != "legacy" {
		t.Errorf("notes = %+v", doc.Notes)
	}
}

func TestMigrateLegacyNoop(t *testing.T) {
	backup, err := MigrateLegacy(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || backup != "" {
		t.Errorf("got (%q, %v), want no-op", backup, err)
	}
	backup, err = MigrateLegacy("")
	if err != nil || backup != "" {
		t.Errorf("got (%q, %v), want no-op", backup, err)
	}
}

func TestNewFS_RequiresPaths(t *testing.T) {
	if _, err := NewFS("", "database.yaml", nil); err == nil {
		t.Error("expected error for empty dir")
	}
	if _, err := NewFS(t.TempDir(), "", nil); err == nil {
		t.Error("expected error for empty file")
	}
}
