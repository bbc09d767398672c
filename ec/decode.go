package ec

import "github.com/NVIDIA/buckets/cmn"

// Decode reassembles the original payload of outSize bytes from shards, per
// spec.md §4.3.1. If any data shard is missing it is reconstructed first
// (ReconstructData); the k data shards are then spliced back together
// respecting the original bytes-per-chunk partition, discarding the
// zero-padding in the final shard.
func (c *Context) Decode(shards [][]byte, chunkSize int64, outSize int64) ([]byte, error) {
	if len(shards) != c.n {
		return nil, cmn.NewError(cmn.KindInvalidArgument, "expected %d shards, got %d", c.n, len(shards))
	}
	if outSize == 0 {
		return []byte{}, nil
	}

	needsData := false
	for i := 0; i < c.K; i++ {
		if shards[i] == nil {
			needsData = true
			break
		}
	}
	if needsData {
		if err := c.ReconstructData(shards); err != nil {
			return nil, err
		}
	}

	out := make([]byte, outSize)
	bytesPerChunk := (outSize + int64(c.K) - 1) / int64(c.K)
	off := int64(0)
	for i := 0; i < c.K; i++ {
		end := off + bytesPerChunk
		if end > outSize {
			end = outSize
		}
		if off < outSize {
			if int64(len(shards[i])) < end-off {
				return nil, cmn.NewError(cmn.KindInvalidArgument, "shard %d shorter (%d) than expected slice (%d)", i, len(shards[i]), end-off)
			}
			copy(out[off:end], shards[i][:end-off])
		}
		off = end
	}
	return out, nil
}
