package a2anet

import (
	"errors"
	"fmt"
)

// ErrMaxTurns is returned when a run exceeds its turn limit.
var ErrMaxTurns = errors.New("max turns exceeded")

// UnsupportedItemError reports a transcript item of a kind this bridge does
// not support. It is fatal to the execution that encounters it: the item is
// not silently dropped, the run is aborted.
type UnsupportedItemError struct {
	// Kind is the offending sub-kind tag, e.g. "computer_call".
	Kind string
}

// Error returns the error message.
func (e *UnsupportedItemError) Error() string {
	return fmt.Sprintf("unsupported item kind: %s", e.Kind)
}

// IsUnsupportedItem reports whether err is an UnsupportedItemError.
func IsUnsupportedItem(err error) bool {
	var uie *UnsupportedItemError
	return errors.As(err, &uie)
}
