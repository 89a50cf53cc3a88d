// Package notestore implements the in-memory note collection and its naming
// rules. It performs no I/O.
package notestore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/models"
)

// Store is an ordered collection of notes plus the user options stored with them.
// Names are unique; insertion order is preserved.
type Store struct {
	options models.Options
	notes   []models.Note
}

// New builds a Store from a decoded document. The document's notes are copied.
func New(doc models.Document) *Store {
	notes := make([]models.Note, len(doc.Notes))
	copy(notes, doc.Notes)
	return &Store{options: doc.Options, notes: notes}
}

// Document returns the persisted representation of the store.
func (s *Store) Document() models.Document {
	return models.Document{Options: s.options, Notes: s.All()}
}

// Options returns the current options.
func (s *Store) Options() models.Options {
	return s.options
}

// SetEditor changes the editor executable used by the edit command.
func (s *Store) SetEditor(editor string) {
	s.options.Editor = editor
}

// SetTemplate changes the name template. The template must contain the marker.
func (s *Store) SetTemplate(template string) error {
	if err := ValidateTemplate(template); err != nil {
		return err
	}
	s.options.NameTemplate = template
	return nil
}

// Exists reports whether a note with exactly this name is stored.
func (s *Store) Exists(name string) bool {
	return s.index(name) >= 0
}

// Find returns a copy of the named note.
func (s *Store) Find(name string) (models.Note, error) {
	i := s.index(name)
	if i < 0 {
		return models.Note{}, notFound(name)
	}
	return s.notes[i], nil
}

// Insert appends a note. Empty and duplicate names are rejected.
func (s *Store) Insert(note models.Note) error {
	if note.Name == "" {
		return fmt.Errorf("note name is empty: %w", apperr.ErrInvalidInput)
	}
	if s.Exists(note.Name) {
		return duplicate(note.Name)
	}
	s.notes = append(s.notes, note)
	return nil
}

// Remove deletes the named note.
func (s *Store) Remove(name string) error {
	i := s.index(name)
	if i < 0 {
		return notFound(name)
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return nil
}

// Rename changes a note's name. Renaming onto another existing note is
// rejected; renaming a note to its own name is a no-op.
func (s *Store) Rename(oldName, newName string) error {
	i := s.index(oldName)
	if i < 0 {
		return notFound(oldName)
	}
	if newName == "" {
		return fmt.Errorf("new note name is empty: %w", apperr.ErrInvalidInput)
	}
	if oldName == newName {
		return nil
	}
	if s.Exists(newName) {
		return duplicate(newName)
	}
	s.notes[i].Name = newName
	return nil
}

// SetContent replaces the content of the named note.
func (s *Store) SetContent(name, content string) error {
	i := s.index(name)
	if i < 0 {
		return notFound(name)
	}
	s.notes[i].Content = content
	return nil
}

// SetDescription replaces the description of the named note.
func (s *Store) SetDescription(name, description string) error {
	i := s.index(name)
	if i < 0 {
		return notFound(name)
	}
	s.notes[i].Description = description
	return nil
}

// GenerateName substitutes Count()+1 for every marker in template.
//
// The number is recomputed from the current count on each call, so it can
// collide with an existing name once notes have been removed out of order.
// Callers still go through Insert, which rejects the collision.
func (s *Store) GenerateName(template string) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	return strings.ReplaceAll(template, models.TemplateMarker, strconv.Itoa(len(s.notes)+1)), nil
}

// All returns a snapshot of the notes in insertion order.
func (s *Store) All() []models.Note {
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Count returns the number of stored notes.
func (s *Store) Count() int {
	return len(s.notes)
}

// Search returns the notes whose name contains pattern, in insertion order.
func (s *Store) Search(pattern string) []models.Note {
	var out []models.Note
	for _, n := range s.notes {
		if strings.Contains(n.Name, pattern) {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) index(name string) int {
	for i, n := range s.notes {
		if n.Name == name {
			return i
		}
	}
	return -1
}

// ValidateTemplate checks that a name template contains the marker.
func ValidateTemplate(template string) error {
	err := validation.Validate(template,
		validation.Required,
		validation.By(func(value any) error {
			if !strings.Contains(value.(string), models.TemplateMarker) {
				return errors.New("must contain " + models.TemplateMarker)
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: template %q %v", apperr.ErrBadTemplate, template, err)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("note %q: %w", name, apperr.ErrNotFound)
}

func duplicate(name string) error {
	return fmt.Errorf("note %q: %w", name, apperr.ErrDuplicateName)
}
