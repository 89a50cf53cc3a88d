package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/kamiya/pkg/config"
)

func TestNewDefaultConfig_HomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	cfg := NewDefaultConfig()
	if cfg.Storage.Dir != dir {
		t.Errorf("storage dir = %q, want %q", cfg.Storage.Dir, dir)
	}
	if got, want := cfg.Storage.Path(), filepath.Join(dir, "database.yaml"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if cfg.Storage.LegacyFile != "" {
		t.Errorf("legacy file = %q, want empty when %s is set", cfg.Storage.LegacyFile, HomeEnv)
	}
	if got, want := DefaultConfigPath(), filepath.Join(dir, "app.yaml"); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestClipboardConfig_EmptyDefaultsAuto(t *testing.T) {
	cfg := ClipboardConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty provider should default to auto: %v", err)
	}
	if cfg.Provider != "auto" {
		t.Errorf("provider = %q, want %q", cfg.Provider, "auto")
	}
}

func TestClipboardConfig_UnknownProvider(t *testing.T) {
	cfg := ClipboardConfig{Provider: "carrier-pigeon"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown provider should fail validation")
	}
}

func TestStorageConfig_Required(t *testing.T) {
	cfg := StorageConfig{Dir: "", File: "database.yaml"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty dir should fail validation")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("NOTES_DIR", "/srv/notes")
	path := filepath.Join(t.TempDir(), "app.yaml")
	data := "app:\n  log_level: debug\nstorage:\n  dir: ${NOTES_DIR}\nclipboard:\n  provider: xclip\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
	if cfg.Storage.Dir != "/srv/notes" {
		t.Errorf("dir = %q, want /srv/notes", cfg.Storage.Dir)
	}
	if cfg.Storage.File != "database.yaml" {
		t.Errorf("file = %q, want default kept", cfg.Storage.File)
	}
	if cfg.Clipboard.Provider != "xclip" {
		t.Errorf("provider = %q, want xclip", cfg.Clipboard.Provider)
	}
}
