package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Category classifies chunk-persist failures so callers can answer "is the
// disk full, did we lose the temp files, or is it something else" without
// string matching.
type Category string

const (
	CategoryDiskFull    Category = "disk_full"
	CategoryMissingFile Category = "missing_file"
	CategoryIO          Category = "io"
)

// PersistError wraps a scratch-area failure with its category
type PersistError struct {
	Category Category
	Op       string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("scratch %s: %s: %v", e.Op, e.Category, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// classify wraps err as a PersistError with the category derived from the
// underlying errno
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	cat := CategoryIO
	switch {
	case errors.Is(err, syscall.ENOSPC):
		cat = CategoryDiskFull
	case errors.Is(err, fs.ErrNotExist):
		cat = CategoryMissingFile
	}
	return &PersistError{Category: cat, Op: op, Err: err}
}
