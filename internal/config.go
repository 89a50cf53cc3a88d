package internal

import (
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kamiya/internal/clipboard"
)

// HomeEnv overrides the directory holding the database and app.yaml.
const HomeEnv = "KAMIYA_HOME"

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Storage   StorageConfig     `yaml:"storage"`
	Clipboard ClipboardConfig   `yaml:"clipboard"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return c.Clipboard.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// StorageConfig locates the database file.
//
// LegacyFile is the single-file database written by releases before 0.6. It is
// moved aside on startup when present; leave it empty to skip the check.
type StorageConfig struct {
	Dir        string `yaml:"dir"`
	File       string `yaml:"file"`
	LegacyFile string `yaml:"legacy_file"`
}

// Path returns the full path of the database file.
func (c *StorageConfig) Path() string {
	return filepath.Join(c.Dir, c.File)
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.File, validation.Required),
	)
}

// ClipboardConfig selects the clipboard provider.
type ClipboardConfig struct {
	Provider string `yaml:"provider"`
}

// Validate validates the clipboard configuration.
func (c *ClipboardConfig) Validate() error {
	if c.Provider == "" {
		c.Provider = clipboard.KindAuto
	}
	kinds := make([]any, len(clipboard.Kinds))
	for i, k := range clipboard.Kinds {
		kinds[i] = k
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(kinds...)),
	)
}

// HomeDir returns the directory holding kamiya's files: $KAMIYA_HOME if set,
// otherwise "kamiya" under the user config directory.
func HomeDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "kamiya")
}

// DefaultConfigPath is where app.yaml is looked up when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "app.yaml")
}

func legacyFile() string {
	if os.Getenv(HomeEnv) != "" {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kamiya.yaml")
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Storage: StorageConfig{
			Dir:        HomeDir(),
			File:       "database.yaml",
			LegacyFile: legacyFile(),
		},
		Clipboard: ClipboardConfig{
			Provider: clipboard.KindAuto,
		},
	}
}
