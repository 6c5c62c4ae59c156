package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocked is returned when another writer holds the store lock.
var ErrLocked = errors.New("store is locked by another writer")

// SchemaMismatchError reports a persisted file or batch that does not fit the
// store's schema. Nothing is written when it is returned.
type SchemaMismatchError struct {
	Path   string
	Reason string
	Want   []string // expected columns, when the header differs
	Got    []string
}

func (e *SchemaMismatchError) Error() string {
	if e.Want != nil {
		return fmt.Sprintf("schema mismatch in %s: header [%s], want [%s]",
			e.Path, strings.Join(e.Got, ";"), strings.Join(e.Want, ";"))
	}
	return fmt.Sprintf("schema mismatch in %s: %s", e.Path, e.Reason)
}

// IOError reports a failed read or write of a store file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
