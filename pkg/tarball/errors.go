package tarball

import "errors"

var (
	// Builder preconditions
	ErrSourceNotFound = errors.New("source directory not found")
	ErrSourceNotDir   = errors.New("source path is not a directory")

	// Fixer preconditions
	ErrArchiveNotFound = errors.New("archive not found")
)
