// Package models defines the domain types for Kamiya.
package models

// TemplateMarker is replaced by a 1-based sequence number when a note name is
// generated from a template.
const TemplateMarker = "&i"

// Note is a single stored note.
type Note struct {
	Name        string `yaml:"name" json:"name" toml:"name"`
	Content     string `yaml:"content" json:"content" toml:"content"`
	Description string `yaml:"description" json:"description" toml:"description"`
}

// Options holds the user preferences persisted alongside the notes.
type Options struct {
	NameTemplate string `yaml:"name_template" json:"name_template" toml:"name_template"`
	Editor       string `yaml:"editor" json:"editor" toml:"editor"`
}

// Document is the persisted shape of the whole database file.
type Document struct {
	Options Options `yaml:"options" json:"options" toml:"options"`
	Notes   []Note  `yaml:"notes" json:"notes" toml:"notes"`
}

// DefaultOptions returns the options written on first run.
func DefaultOptions() Options {
	return Options{
		NameTemplate: "Note" + TemplateMarker,
		Editor:       "nano",
	}
}

// NewDocument returns an empty document with default options.
func NewDocument() Document {
	return Document{
		Options: DefaultOptions(),
		Notes:   []Note{},
	}
}
