package etl

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no document matches.
var ErrNotFound = errors.New("etl: document not found")

// NoLocationFoundError means neither the full nor the address-only query
// produced coordinates for a company.
type NoLocationFoundError struct {
	Company string
	Address string
}

func (e *NoLocationFoundError) Error() string {
	return fmt.Sprintf("company %s: no location found for address %q", e.Company, e.Address)
}

// MissingDependencyError means a record cannot be transformed because a
// record it depends on is absent or unusable.
type MissingDependencyError struct {
	Entity     string
	ID         string
	Dependency string
	Err        error
}

func (e *MissingDependencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: missing %s: %v", e.Entity, e.ID, e.Dependency, e.Err)
	}
	return fmt.Sprintf("%s %s: missing %s", e.Entity, e.ID, e.Dependency)
}

func (e *MissingDependencyError) Unwrap() error { return e.Err }

// MappingWarning is a reference that was dropped during a transform. It is
// collected, never returned as an error.
type MappingWarning struct {
	Record    string
	Reference string
	Reason    string
}

func (w *MappingWarning) Error() string {
	return fmt.Sprintf("%s: dropped reference %q: %s", w.Record, w.Reference, w.Reason)
}

// IsNoLocation reports whether err is a NoLocationFoundError.
func IsNoLocation(err error) bool {
	var e *NoLocationFoundError
	return errors.As(err, &e)
}

// IsMissingDependency reports whether err is a MissingDependencyError.
func IsMissingDependency(err error) bool {
	var e *MissingDependencyError
	return errors.As(err, &e)
}
