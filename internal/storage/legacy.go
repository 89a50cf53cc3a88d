package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/starford/kamiya/internal/apperr"
)

// MigrateLegacy moves a pre-0.6 single-file database out of the way.
//
// When legacyPath exists it is copied to legacyPath+".bak" and removed, and the
// backup path is returned. The backup can be brought back with the import
// command. An empty legacyPath or a missing file is a no-op.
func MigrateLegacy(legacyPath string) (string, error) {
	if legacyPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(legacyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("storage: read legacy %s: %w: %w", legacyPath, apperr.ErrStorageIO, err)
	}

	backup := legacyPath + ".bak"
	if err := writeAtomic(backup, data); err != nil {
		return "", err
	}
	if err := os.Remove(legacyPath); err != nil {
		return "", fmt.Errorf("storage: remove legacy %s: %w: %w", legacyPath, apperr.ErrStorageIO, err)
	}
	return backup, nil
}
