package graph

// childIter is one frame of the mark stack: the not yet visited subscribers
// of one level.
type childIter struct {
	ids []NodeID
	pos int
}

func (it *childIter) next() (NodeID, bool) {
	if it.pos >= len(it.ids) {
		return 0, false
	}
	id := it.ids[it.pos]
	it.pos++
	return id, true
}

// MarkDirty marks id dirty and every node transitively subscribed to it as
// needing a check. Effects reached on the way are queued for the next
// RunEffects. Nothing is recomputed here.
func (rt *Runtime) MarkDirty(id NodeID) error {
	n, err := rt.lookup("mark", id)
	if err != nil {
		return err
	}
	rt.markDirty(n)
	return nil
}

// markDirty walks subscribers depth first with a stack of iterators rather
// than of nodes. A node with a single subscriber is followed in place, so a
// linear chain never grows the stack. Nodes already in CHECK or DIRTY_MARKED
// were handled earlier in this pass and are not descended into again.
func (rt *Runtime) markDirty(root *node) {
	rt.mark(root, StateDirty)

	children := rt.subscriberList(root.id)
	if len(children) == 0 {
		return
	}

	stack := make([]*childIter, 0, 8)
	stack = append(stack, &childIter{ids: children})

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		child, ok := top.next()
		if !ok {
			stack = stack[:len(stack)-1]
			continue
		}
		if next := rt.markBranch(child); next != nil {
			stack = append(stack, next)
		}
	}
}

// markBranch marks child and follows single-subscriber links until it hits a
// leaf, an already visited node, or a fan out, which it returns as a new frame.
func (rt *Runtime) markBranch(child NodeID) *childIter {
	for {
		n, ok := rt.nodes[child]
		if !ok {
			return nil
		}
		if n.state == StateCheck || n.state == StateDirtyMarked {
			return nil
		}

		rt.mark(n, StateCheck)

		switch rt.subscriberCount(child) {
		case 0:
			return nil
		case 1:
			child = rt.subscribers[child].ToSlice()[0]
		default:
			return &childIter{ids: rt.subscriberList(child)}
		}
	}
}

// mark raises n to state, queues it when it is an effect that is not the
// one currently running, and turns a freshly dirty node into DIRTY_MARKED so
// later visits in the same pass stop at it.
func (rt *Runtime) mark(n *node, state State) {
	if state > n.state {
		n.mark(state)
	}
	rt.stats.Marks++

	if n.kind == KindEffect && !rt.isObserver(n.id) {
		rt.pending = append(rt.pending, n.id)
	}

	if n.state == StateDirty {
		n.mark(StateDirtyMarked)
	}
}
