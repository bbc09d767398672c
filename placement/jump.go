package placement

import "github.com/NVIDIA/buckets/cmn"

// jumpMultiplier is the constant from Lamping & Veach's jump-consistent-hash
// recurrence, spec.md §4.2.3.
const jumpMultiplier = 2862933555777941757

// JumpHash maps a pre-hashed 64-bit key into [0, numBuckets), per the
// standard Google jump-hash recurrence. Intended for dense, contiguous
// bucket ranges (e.g. shard-within-set indexing) where the ring's vnode
// machinery would be overkill.
func JumpHash(key uint64, numBuckets int) (int, error) {
	if numBuckets <= 0 {
		return 0, cmn.NewError(cmn.KindInvalidArgument, "num_buckets must be > 0, got %d", numBuckets)
	}
	var b, j int64
	for j < int64(numBuckets) {
		b = j
		key = key*jumpMultiplier + 1
		j = int64(float64(b+1) * (float64(int64(1)<<31) / float64((key>>33)+1)))
	}
	return int(b), nil
}
