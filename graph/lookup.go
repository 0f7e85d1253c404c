package graph

import "fmt"

// SignalOf returns a typed handle for an existing signal id.
func SignalOf[T any](rt *Runtime, id NodeID) (*Signal[T], error) {
	n, err := rt.lookup("lookup", id)
	if err != nil {
		return nil, err
	}
	if n.kind != KindSignal || n.external {
		return nil, nodeErr("lookup", id, fmt.Errorf("%w: %s is not a signal", ErrTypeMismatch, n.kind))
	}
	if _, err := as[T](id, n.value); err != nil {
		return nil, err
	}
	return &Signal[T]{rt: rt, id: id}, nil
}

// MemoOf returns a typed handle for an existing memo id. A memo that has not
// been computed yet can only be checked for its kind.
func MemoOf[T any](rt *Runtime, id NodeID) (*Memo[T], error) {
	n, err := rt.lookup("lookup", id)
	if err != nil {
		return nil, err
	}
	if n.kind != KindMemo {
		return nil, nodeErr("lookup", id, fmt.Errorf("%w: %s is not a memo", ErrTypeMismatch, n.kind))
	}
	if _, err := as[T](id, n.value); err != nil {
		return nil, err
	}
	return &Memo[T]{rt: rt, id: id}, nil
}

// ValueOf brings any node up to date and returns its value as T, without
// tracking. Triggers have no value and yield the zero value.
func ValueOf[T any](rt *Runtime, id NodeID) (T, error) {
	v, err := rt.read(nil, id, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](id, v)
}
