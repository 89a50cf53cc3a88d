package internal

import (
	"github.com/starford/kamiya/internal/clipboard"
	"github.com/starford/kamiya/internal/editor"
	"github.com/starford/kamiya/internal/term"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	clipboard clipboard.Provider
	runner    editor.Runner
	prompter  term.Prompter
	getenv    func(string) string
}

// WithConfig sets the application configuration. The config file is not read
// when it is given.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClipboard replaces the clipboard provider chosen from configuration.
func WithClipboard(p clipboard.Provider) Option {
	return func(a *application) {
		a.clipboard = p
	}
}

// WithEditorRunner replaces how the external editor is started.
func WithEditorRunner(r editor.Runner) Option {
	return func(a *application) {
		a.runner = r
	}
}

// WithPrompter replaces the terminal prompt used by import --interactive.
func WithPrompter(p term.Prompter) Option {
	return func(a *application) {
		a.prompter = p
	}
}

// WithGetenv overrides environment lookup for $EDITOR.
func WithGetenv(fn func(string) string) Option {
	return func(a *application) {
		a.getenv = fn
	}
}
