package noteservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/notestore"
	"github.com/starford/kamiya/internal/storage"
)

// ConflictPolicy decides what happens to an imported note whose name already exists.
type ConflictPolicy int

const (
	// ConflictSkip keeps the existing note and reports the conflict.
	ConflictSkip ConflictPolicy = iota
	// ConflictReplace overwrites content and description of the existing note.
	ConflictReplace
	// ConflictAsk calls ImportOptions.Confirm for every conflict.
	ConflictAsk
)

// ImportOptions controls Import.
type ImportOptions struct {
	Policy ConflictPolicy
	// Confirm is asked whether to replace the named note. Required for ConflictAsk.
	Confirm func(name string) bool
}

// ImportReport lists what Import did with each incoming note.
type ImportReport struct {
	Added    []string
	Replaced []string
	Skipped  []string
}

// Import merges the notes of the file at path into the store. Options in the
// imported file are ignored.
func (s *Service) Import(_ context.Context, path string, opts ImportOptions) (*ImportReport, error) {
	if opts.Policy == ConflictAsk && opts.Confirm == nil {
		return nil, fmt.Errorf("interactive import needs a prompt: %w", apperr.ErrInvalidInput)
	}
	incoming, err := storage.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	err = s.update("import", func(store *notestore.Store) error {
		for _, note := range incoming.Notes {
			if !store.Exists(note.Name) {
				if err := store.Insert(note); err != nil {
					return err
				}
				report.Added = append(report.Added, note.Name)
				continue
			}

			replace := false
			switch opts.Policy {
			case ConflictReplace:
				replace = true
			case ConflictAsk:
				replace = opts.Confirm(note.Name)
			}
			if !replace {
				report.Skipped = append(report.Skipped, note.Name)
				continue
			}
			if err := store.SetContent(note.Name, note.Content); err != nil {
				return err
			}
			if err := store.SetDescription(note.Name, note.Description); err != nil {
				return err
			}
			report.Replaced = append(report.Replaced, note.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("note service: imported",
		slog.String("path", path),
		slog.Int("added", len(report.Added)),
		slog.Int("replaced", len(report.Replaced)),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}
