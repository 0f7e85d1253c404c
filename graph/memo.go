package graph

// Memo is a cached derivation. It is computed the first time it is read and
// afterwards only when a source it read last time has changed.
type Memo[T any] struct {
	rt *Runtime
	id NodeID
}

// CreateMemo registers fn as a memo. fn receives the previous value (the zero
// value on the first run). The memo's subscribers are only invalidated when
// the new value differs from the previous one.
func CreateMemo[T any](rt *Runtime, fn func(sc *Scope, prev T) (T, error), opts ...Option) *Memo[T] {
	id := rt.create(KindMemo, nil, StateDirty, applyOptions(opts))
	n := rt.nodes[id]
	n.compute = func(sc *Scope, prev any) (any, bool, error) {
		p, err := as[T](id, prev)
		if err != nil {
			return prev, false, err
		}
		next, err := fn(sc, p)
		if err != nil {
			return prev, false, err
		}
		return next, !rt.equalFor(n)(prev, next), nil
	}

	return &Memo[T]{rt: rt, id: id}
}

func (m *Memo[T]) ID() NodeID {
	return m.id
}

func (m *Memo[T]) Tag() string {
	return m.rt.tagOf(m.id)
}

// Get brings the memo up to date, subscribes the scope's node to it and
// returns its value.
func (m *Memo[T]) Get(sc *Scope) (T, error) {
	v, err := m.rt.read(sc, m.id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](m.id, v)
}

func (m *Memo[T]) Read(sc *Scope) T {
	return mustRead(sc, m.id, m.Get)
}

// Peek brings the memo up to date and returns its value without subscribing.
func (m *Memo[T]) Peek() (T, error) {
	v, err := m.rt.read(nil, m.id, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](m.id, v)
}

func (m *Memo[T]) Dispose() error {
	return m.rt.Dispose(m.id)
}
