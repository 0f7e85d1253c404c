package graph

import (
	"fmt"
	"reflect"
)

// Signal is a writable root cell.
type Signal[T any] struct {
	rt *Runtime
	id NodeID
}

func CreateSignal[T any](rt *Runtime, initial T, opts ...Option) *Signal[T] {
	id := rt.create(KindSignal, initial, StateClean, applyOptions(opts))
	return &Signal[T]{rt: rt, id: id}
}

func (s *Signal[T]) ID() NodeID {
	return s.id
}

// Tag returns the signal's tag, or a generated one when it has none.
func (s *Signal[T]) Tag() string {
	return s.rt.tagOf(s.id)
}

// Get returns the current value and subscribes the scope's node to it.
func (s *Signal[T]) Get(sc *Scope) (T, error) {
	v, err := s.rt.read(sc, s.id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](s.id, v)
}

// Read is Get for use inside bodies: a failure is recorded on the scope and
// the zero value returned. It panics when sc is nil.
func (s *Signal[T]) Read(sc *Scope) T {
	return mustRead(sc, s.id, s.Get)
}

// Peek returns the current value without subscribing anything.
func (s *Signal[T]) Peek() (T, error) {
	v, err := s.rt.read(nil, s.id, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](s.id, v)
}

// Set writes v. Writing a value equal to the current one does nothing.
func (s *Signal[T]) Set(v T) error {
	n, err := s.rt.lookup("set", s.id)
	if err != nil {
		return err
	}
	s.rt.write(n, v)
	return nil
}

// Update writes fn applied to the current value.
func (s *Signal[T]) Update(fn func(T) T) error {
	cur, err := s.Peek()
	if err != nil {
		return err
	}
	return s.Set(fn(cur))
}

func (s *Signal[T]) Dispose() error {
	return s.rt.Dispose(s.id)
}

// write stores value into a signal node and starts the mark phase, unless
// the value is equal to the current one.
func (rt *Runtime) write(n *node, value any) {
	if rt.equalFor(n)(n.value, value) {
		return
	}
	n.value = value
	rt.stats.Writes++
	rt.markDirty(n)
}

func (rt *Runtime) tagOf(id NodeID) string {
	if n, ok := rt.nodes[id]; ok && n.tag != "" {
		return n.tag
	}
	return fmt.Sprintf("internal_%d", uint64(id))
}

func as[T any](id NodeID, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, nodeErr("read", id, fmt.Errorf("%w: have %T, want %s", ErrTypeMismatch, v, reflect.TypeFor[T]()))
	}
	return t, nil
}

func mustRead[T any](sc *Scope, id NodeID, get func(*Scope) (T, error)) T {
	if sc == nil {
		panic(nodeErr("read", id, ErrTrackingMisuse))
	}
	v, err := get(sc)
	if err != nil {
		sc.fail(err)
	}
	return v
}
