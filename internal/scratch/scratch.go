// Package scratch manages temporary files that replace a target only after
// the caller commits them.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is a temporary file created alongside its target path. Write into
// it, then either Commit to rename it over the target or Cleanup to drop
// it. Cleanup after a successful Commit is a no-op, so both can be used
// together on every exit path.
type File struct {
	*os.File
	target    string
	committed bool
}

// New creates a scratch file in the same directory as target, so the final
// rename never crosses a filesystem boundary.
func New(target string) (*File, error) {
	f, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch file: %w", err)
	}
	return &File{File: f, target: target}, nil
}

// Commit closes the scratch file and renames it over the target.
func (s *File) Commit() error {
	if err := s.File.Close(); err != nil {
		return fmt.Errorf("closing scratch file: %w", err)
	}
	if err := os.Rename(s.File.Name(), s.target); err != nil {
		return fmt.Errorf("replacing %s: %w", s.target, err)
	}
	s.committed = true
	return nil
}

// Cleanup removes the scratch file unless it was committed.
func (s *File) Cleanup() {
	if s.committed {
		return
	}
	s.File.Close()
	os.Remove(s.File.Name())
}
