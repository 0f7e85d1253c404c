package graph

// Effect is a computation run for its side effects. It is queued when
// created and whenever one of its sources may have changed, and runs on the
// next RunEffects.
type Effect struct {
	rt *Runtime
	id NodeID
}

// CreateEffect registers fn as an effect. Use DependsOn to re-run it on
// sources the body does not read.
func CreateEffect(rt *Runtime, fn func(sc *Scope) error, opts ...Option) *Effect {
	return createEffect(rt, nil, func(sc *Scope, prev any) (any, bool, error) {
		return nil, true, fn(sc)
	}, opts)
}

// CreateStatefulEffect registers an effect that carries a value from one run
// to the next. fn receives what it returned last time.
func CreateStatefulEffect[T any](rt *Runtime, fn func(sc *Scope, prev T) (T, error), opts ...Option) *Effect {
	var initial T
	return createEffect(rt, initial, func(sc *Scope, prev any) (any, bool, error) {
		p, err := as[T](sc.id, prev)
		if err != nil {
			return prev, false, err
		}
		next, err := fn(sc, p)
		if err != nil {
			return prev, false, err
		}
		return next, true, nil
	}, opts)
}

func createEffect(rt *Runtime, initial any, compute Computation, opts []Option) *Effect {
	id := rt.create(KindEffect, initial, StateDirty, applyOptions(opts))
	rt.nodes[id].compute = compute
	rt.pending = append(rt.pending, id)

	return &Effect{rt: rt, id: id}
}

func (e *Effect) ID() NodeID {
	return e.id
}

func (e *Effect) Tag() string {
	return e.rt.tagOf(e.id)
}

func (e *Effect) Dispose() error {
	return e.rt.Dispose(e.id)
}
