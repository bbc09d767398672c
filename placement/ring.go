package placement

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/hash"
)

// VNode is one synthetic position on the ring belonging to a physical node,
// spec.md §3 RingVNode.
type VNode struct {
	Hash     uint64
	NodeID   string
	NodeName string
}

// ringSnapshot is an immutable, hash-sorted vnode table. Lookups read a
// snapshot via an atomic pointer so they never block on ring mutation,
// mirroring how the teacher's cluster.Smap is swapped wholesale rather than
// mutated in place (cluster/map.go).
type ringSnapshot struct {
	vnodes []VNode // sorted by Hash ascending
}

func (s *ringSnapshot) find(h uint64) int {
	n := len(s.vnodes)
	i := sort.Search(n, func(i int) bool { return s.vnodes[i].Hash >= h })
	if i == n {
		i = 0 // wrap to the start of the ring
	}
	return i
}

// Ring is a consistent-hash ring with virtual nodes, spec.md §4.2.2. Add/Remove
// require exclusive access; Lookup/LookupN are lock-free reads of the current
// snapshot.
type Ring struct {
	mu     sync.Mutex // guards node bookkeeping and publishing a new snapshot
	seed   uint64
	vnodes int
	nodes  map[string]string // nodeID -> nodeName, for Remove/iteration
	snap   atomic.Pointer[ringSnapshot]
}

func NewRing(seed uint64, vnodesPerNode int) *Ring {
	if vnodesPerNode <= 0 {
		vnodesPerNode = cmn.DefaultVNodes
	}
	r := &Ring{seed: seed, vnodes: vnodesPerNode, nodes: make(map[string]string)}
	r.snap.Store(&ringSnapshot{})
	return r
}

func vnodeHash(seed uint64, nodeName string, i int) uint64 {
	return hash.XXHash64String(seed, fmt.Sprintf("%s:%d", nodeName, i))
}

// AddNode expands nodeID/nodeName into Ring.vnodes virtual nodes and
// republishes a new sorted snapshot.
func (r *Ring) AddNode(nodeID, nodeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[nodeID]; exists {
		return
	}
	r.nodes[nodeID] = nodeName
	r.rebuildLocked()
}

func (r *Ring) RemoveNode(nodeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[nodeID]; !exists {
		return
	}
	delete(r.nodes, nodeID)
	r.rebuildLocked()
}

// rebuildLocked recomputes the full vnode table. Mutation is rare
// (membership changes) relative to lookups, so a full rebuild on every
// change is simpler than incremental insertion and still O(N*V*log(N*V)).
func (r *Ring) rebuildLocked() {
	vnodes := make([]VNode, 0, len(r.nodes)*r.vnodes)
	for id, name := range r.nodes {
		for i := 0; i < r.vnodes; i++ {
			vnodes = append(vnodes, VNode{Hash: vnodeHash(r.seed, name, i), NodeID: id, NodeName: name})
		}
	}
	sort.Slice(vnodes, func(i, j int) bool { return vnodes[i].Hash < vnodes[j].Hash })
	r.snap.Store(&ringSnapshot{vnodes: vnodes})
}

// Lookup returns the physical node owning name: the first vnode clockwise
// from xxhash(seed, name), wrapping past the end of the ring.
func (r *Ring) Lookup(name string) (nodeID string, ok bool) {
	snap := r.snap.Load()
	if len(snap.vnodes) == 0 {
		return "", false
	}
	h := hash.XXHash64String(r.seed, name)
	i := snap.find(h)
	return snap.vnodes[i].NodeID, true
}

// LookupN walks clockwise from name's position collecting up to n distinct
// physical node ids.
func (r *Ring) LookupN(name string, n int) []string {
	snap := r.snap.Load()
	if len(snap.vnodes) == 0 || n <= 0 {
		return nil
	}
	h := hash.XXHash64String(r.seed, name)
	start := snap.find(h)
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	total := len(snap.vnodes)
	for i := 0; i < total && len(out) < n; i++ {
		v := snap.vnodes[(start+i)%total]
		if _, dup := seen[v.NodeID]; dup {
			continue
		}
		seen[v.NodeID] = struct{}{}
		out = append(out, v.NodeID)
	}
	return out
}

func (r *Ring) NodeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}
