package folio

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entry does not exist.
	ErrNotFound = errors.New("folio: entry not found")
	// ErrCollectionNotFound is returned when a collection has no backing source.
	ErrCollectionNotFound = errors.New("folio: collection not found")
)

// ContentStore supplies the entries of a collection. Entries are returned
// unordered; ordering is the listing renderer's job.
type ContentStore interface {
	Entries(collection string) ([]Entry, error)
	Entry(collection, id string) (Entry, error)
}

// EntryError reports a content file that violates the entry schema.
type EntryError struct {
	Path  string
	Field string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("folio: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("folio: %s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
