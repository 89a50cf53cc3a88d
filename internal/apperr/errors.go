package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateName   = errors.New("already exists")
	ErrBadTemplate     = errors.New("bad name template")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyExists   = errors.New("file already exists")
	ErrStorageIO       = errors.New("storage error")
	ErrExternalProcess = errors.New("external process failed")
)
