package fs

import "github.com/NVIDIA/buckets/cmn"

// Mountpaths is the ordered set of disk roots a pool spreads shards across.
// Index into this slice is the "disk index" referenced by
// LocationRecord.DiskIdxs (spec.md §3), so the ordering must stay stable for
// the lifetime of a pool -- mirroring how the teacher's fs.VMD pins a
// mountpath's identity rather than re-deriving it from directory order.
type Mountpaths struct {
	paths []Path
}

func NewMountpaths(roots []string) (*Mountpaths, error) {
	if len(roots) == 0 {
		return nil, cmn.NewError(cmn.KindInvalidArgument, "at least one disk root is required")
	}
	mp := &Mountpaths{paths: make([]Path, len(roots))}
	for i, r := range roots {
		mp.paths[i] = NewPath(r)
	}
	return mp, nil
}

func (m *Mountpaths) Count() int { return len(m.paths) }

func (m *Mountpaths) At(idx int) (Path, error) {
	if idx < 0 || idx >= len(m.paths) {
		return Path{}, cmn.NewError(cmn.KindInvalidArgument, "disk index %d out of range [0,%d)", idx, len(m.paths))
	}
	return m.paths[idx], nil
}

func (m *Mountpaths) All() []Path {
	out := make([]Path, len(m.paths))
	copy(out, m.paths)
	return out
}
