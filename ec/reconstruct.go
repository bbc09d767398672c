package ec

import "github.com/NVIDIA/buckets/cmn"

// countPresent reports how many shards are non-nil.
func countPresent(shards [][]byte) int {
	n := 0
	for _, s := range shards {
		if s != nil {
			n++
		}
	}
	return n
}

// Reconstruct rebuilds every missing shard (data or parity, marked by a nil
// entry) in place, per spec.md §4.3.1: for each missing index, select the k
// rows of the encoding matrix corresponding to present shards, invert that
// submatrix over GF(2^8), and multiply by the target row. That linear
// algebra lives inside klauspost/reedsolomon's Reconstruct; Context only
// enforces the quorum precondition so a caller can never observe a partial
// reconstruction.
func (c *Context) Reconstruct(shards [][]byte) error {
	if len(shards) != c.n {
		return cmn.NewError(cmn.KindInvalidArgument, "expected %d shards, got %d", c.n, len(shards))
	}
	present := countPresent(shards)
	if present < c.K {
		return cmn.WrapError(cmn.KindReconstructionFailure, nil, "only %d of required %d shards present", present, c.K)
	}
	missing := c.n - present
	if missing > c.M {
		return cmn.WrapError(cmn.KindReconstructionFailure, nil, "%d shards missing, exceeds m=%d", missing, c.M)
	}
	if err := c.enc.Reconstruct(shards); err != nil {
		return cmn.WrapError(cmn.KindReconstructionFailure, err, "reed-solomon reconstruct")
	}
	return nil
}

// ReconstructData rebuilds only the missing data shards (indices
// [0,k)), leaving missing parity shards nil. Used by Decode, which never
// needs parity shards back.
func (c *Context) ReconstructData(shards [][]byte) error {
	if len(shards) != c.n {
		return cmn.NewError(cmn.KindInvalidArgument, "expected %d shards, got %d", c.n, len(shards))
	}
	present := countPresent(shards)
	if present < c.K {
		return cmn.WrapError(cmn.KindReconstructionFailure, nil, "only %d of required %d shards present", present, c.K)
	}
	if err := c.enc.ReconstructData(shards); err != nil {
		return cmn.WrapError(cmn.KindReconstructionFailure, err, "reed-solomon reconstruct data")
	}
	return nil
}
