package graph

// Stats are cumulative counters for one runtime.
type Stats struct {
	Writes     uint64 // signal writes that changed a value
	Marks      uint64 // nodes visited by the mark phase
	Recomputes uint64 // memo and effect body executions
	EffectRuns uint64 // effect body executions
	Flushes    uint64 // RunEffects calls
	Disposals  uint64
	Errors     uint64 // failed body executions

	Nodes   int // live nodes
	Pending int // queued effect entries
}

func (rt *Runtime) Stats() Stats {
	s := rt.stats
	s.Nodes = len(rt.nodes)
	s.Pending = len(rt.pending)
	return s
}
