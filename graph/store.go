package graph

// Store is a signal whose value lives outside the graph, in S. The graph
// only tracks who reads it and invalidates them when it is written through
// the Store.
type Store[S, T any] struct {
	rt    *Runtime
	id    NodeID
	store S
	get   func(S) T
	set   func(S, T)
}

func CreateStore[S, T any](rt *Runtime, store S, get func(S) T, set func(S, T), opts ...Option) *Store[S, T] {
	id := rt.create(KindSignal, nil, StateClean, applyOptions(opts))
	rt.nodes[id].external = true

	return &Store[S, T]{rt: rt, id: id, store: store, get: get, set: set}
}

func (s *Store[S, T]) ID() NodeID {
	return s.id
}

func (s *Store[S, T]) Tag() string {
	return s.rt.tagOf(s.id)
}

func (s *Store[S, T]) Get(sc *Scope) (T, error) {
	if _, err := s.rt.read(sc, s.id, true); err != nil {
		var zero T
		return zero, err
	}
	return s.get(s.store), nil
}

func (s *Store[S, T]) Read(sc *Scope) T {
	return mustRead(sc, s.id, s.Get)
}

func (s *Store[S, T]) Peek() (T, error) {
	if _, err := s.rt.lookup("read", s.id); err != nil {
		var zero T
		return zero, err
	}
	return s.get(s.store), nil
}

// Set writes v into the store and invalidates readers, unless the store
// already holds an equal value.
func (s *Store[S, T]) Set(v T) error {
	n, err := s.rt.lookup("set", s.id)
	if err != nil {
		return err
	}
	if s.rt.equalFor(n)(s.get(s.store), v) {
		return nil
	}
	s.set(s.store, v)
	s.rt.stats.Writes++
	s.rt.markDirty(n)
	return nil
}

func (s *Store[S, T]) Update(fn func(T) T) error {
	cur, err := s.Peek()
	if err != nil {
		return err
	}
	return s.Set(fn(cur))
}

// Invalidate marks readers after the store was changed behind the graph's back.
func (s *Store[S, T]) Invalidate() error {
	return s.rt.MarkDirty(s.id)
}

func (s *Store[S, T]) Dispose() error {
	return s.rt.Dispose(s.id)
}
