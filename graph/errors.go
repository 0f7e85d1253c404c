package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference is returned when an operation names a node that was
	// never created or has been disposed. Using an id after disposal is a
	// lifecycle bug in the caller.
	ErrInvalidReference = errors.New("graph: invalid node reference")

	// ErrTrackingMisuse is returned when a tracked read happens without an
	// active scope, e.g. with a nil scope or one whose computation has ended.
	ErrTrackingMisuse = errors.New("graph: tracked read outside of a running computation")

	// ErrTypeMismatch is returned when a node's value is read or written as an
	// incompatible type. The value is left untouched.
	ErrTypeMismatch = errors.New("graph: node value type mismatch")

	// ErrCycle is returned when a computation, directly or through other
	// nodes, demands its own value while it is running.
	ErrCycle = errors.New("graph: dependency cycle")

	// ErrFlushLimit is returned when effects keep scheduling each other past
	// the configured number of flush passes.
	ErrFlushLimit = errors.New("graph: effect flush did not settle")
)

// NodeError records the operation and node an error happened on.
type NodeError struct {
	Op  string
	ID  NodeID
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func nodeErr(op string, id NodeID, err error) error {
	return &NodeError{Op: op, ID: id, Err: err}
}

func IsInvalidReference(err error) bool {
	return errors.Is(err, ErrInvalidReference)
}

func IsTrackingMisuse(err error) bool {
	return errors.Is(err, ErrTrackingMisuse)
}

func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}
