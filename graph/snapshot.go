package graph

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Snapshot returns every live node ordered by id.
func (rt *Runtime) Snapshot() []NodeInfo {
	ids := make([]NodeID, 0, len(rt.nodes))
	for id := range rt.nodes {
		ids = append(ids, id)
	}
	sortNodeIDs(ids)

	infos := make([]NodeInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, rt.info(rt.nodes[id]))
	}
	return infos
}

// Fingerprint hashes the graph's topology: node ids, kinds and source edges.
// Values and states are left out, so two runtimes built the same way hash
// the same, and a node that re-subscribes to what it read before does not
// change the result.
func (rt *Runtime) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte

	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}

	for _, info := range rt.Snapshot() {
		write(uint64(info.ID))
		write(uint64(info.Kind))
		write(uint64(len(info.Sources)))
		for _, src := range info.Sources {
			write(uint64(src))
		}
	}
	return d.Sum64()
}
