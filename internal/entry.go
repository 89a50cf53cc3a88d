// Package internal wires configuration, storage and collaborators into the
// kamiya commands.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/kamiya/internal/clipboard"
	"github.com/starford/kamiya/internal/commands"
	"github.com/starford/kamiya/internal/noteservice"
	"github.com/starford/kamiya/internal/platform"
	"github.com/starford/kamiya/internal/storage"
	"github.com/starford/kamiya/internal/term"
	pkgconfig "github.com/starford/kamiya/pkg/config"
)

// Version is the kamiya release.
const Version = "0.7.0"

// Commands returns the kamiya subcommands configured with the given options.
//
// They read the root flags "config" and "verbose" when present.
func Commands(opts ...Option) []*cli.Command {
	app := &application{getenv: os.Getenv}

	for _, opt := range opts {
		opt(app)
	}

	return commands.New(app.env)
}

// env builds the command environment: config, logger, database and collaborators.
func (a *application) env(_ context.Context, cmd *cli.Command) (*commands.Env, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	root := cmd.Root()
	level := cfg.App.LogLevel
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(root.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("storage_path", cfg.Storage.Path()),
		slog.String("clipboard", cfg.Clipboard.Provider),
		slog.String("log_level", level.String()))

	printer := term.New(root.Writer, root.ErrWriter)

	backup, err := storage.MigrateLegacy(cfg.Storage.LegacyFile)
	if err != nil {
		return nil, fmt.Errorf("migrate legacy database: %w", err)
	}
	if backup != "" {
		printer.Warn("Found a database from an older release; it was moved to %s", backup)
		printer.Hint("Run `kamiya import -f %s` to bring its notes back.", backup)
	}

	gw, err := storage.NewFS(cfg.Storage.Dir, cfg.Storage.File, logger)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if err := gw.EnsureInitialized(); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	clip := a.clipboard
	if clip == nil {
		clip, err = clipboard.New(cfg.Clipboard.Provider, platform.Detect())
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("Clipboard selected", slog.String("provider", clip.Name()))

	svcOpts := []noteservice.Option{
		noteservice.WithClipboard(clip),
		noteservice.WithGetenv(a.getenv),
		noteservice.WithLogger(logger),
	}
	if a.runner != nil {
		svcOpts = append(svcOpts, noteservice.WithEditorRunner(a.runner))
	}

	prompter := a.prompter
	if prompter == nil {
		prompter = term.NewStdPrompter()
	}

	return &commands.Env{
		Service: noteservice.NewService(gw, svcOpts...),
		Out:     printer,
		Prompt:  prompter,
	}, nil
}

// loadConfig returns the configured Config, or reads it from the --config
// path. The default path may be missing; an explicit one may not.
func (a *application) loadConfig(cmd *cli.Command) (*Config, error) {
	if a.config != nil {
		if err := a.config.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
		return a.config, nil
	}

	cfg := NewDefaultConfig()
	if path := cmd.String("config"); path != "" {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if _, err := pkgconfig.LoadOptional(DefaultConfigPath(), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
