package provenance

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph construction and cache handling.
var (
	// ErrForeignNode is returned when a record from another Graph is
	// passed to a Graph method.
	ErrForeignNode = errors.New("node belongs to a different graph")

	// ErrTreeResolved is returned by Restore once a state's token tree has
	// been resolved. Resolved trees are write-once.
	ErrTreeResolved = errors.New("token tree already resolved")

	// ErrCorruptCache is returned when a serialized token tree cannot be
	// decoded.
	ErrCorruptCache = errors.New("corrupt serialized token tree")
)

// CycleError reports that a state's creator chain loops back on itself.
//
// Path contains the states visited before the loop was detected, root
// first, exactly as Path returns them. Back is the state the chain
// returned to.
type CycleError struct {
	State string
	Back  string
	Path  []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("creator chain of %q loops back to %q (path %s)",
		e.State, e.Back, strings.Join(e.Path, " → "))
}

// IsCycleError returns true if the error is a creator-chain cycle.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
