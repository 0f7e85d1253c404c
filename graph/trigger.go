package graph

// Trigger carries no value. Computations track it, Notify invalidates them,
// and Run makes it the owner of the nodes created inside.
type Trigger struct {
	rt *Runtime
	id NodeID
}

func CreateTrigger(rt *Runtime, opts ...Option) *Trigger {
	id := rt.create(KindTrigger, nil, StateClean, applyOptions(opts))
	return &Trigger{rt: rt, id: id}
}

func (t *Trigger) ID() NodeID {
	return t.id
}

func (t *Trigger) Tag() string {
	return t.rt.tagOf(t.id)
}

// Track subscribes the scope's node to the trigger.
func (t *Trigger) Track(sc *Scope) error {
	_, err := t.rt.read(sc, t.id, true)
	return err
}

// Notify marks everything tracking the trigger.
func (t *Trigger) Notify() error {
	return t.rt.MarkDirty(t.id)
}

// Run calls fn with the trigger as owner: nodes created inside are disposed
// together with the trigger.
func (t *Trigger) Run(fn func() error) error {
	if _, err := t.rt.lookup("run", t.id); err != nil {
		return err
	}
	return t.rt.withOwner(t.id, fn)
}

func (t *Trigger) Dispose() error {
	return t.rt.Dispose(t.id)
}
