package ec

import "github.com/NVIDIA/buckets/cmn"

// Encode splits payload into k data shards and computes m parity shards,
// per spec.md §4.3.1. chunkSize must be >= CalcChunkSize(len(payload), k);
// callers that don't need a specific chunk size should pass
// CalcChunkSize(int64(len(payload)), c.K) directly.
//
// Edge case (payload_size == 0): CalcChunkSize returns 0 and Encode returns
// n zero-length shards without touching the Reed-Solomon matrix -- there is
// nothing to combine.
func (c *Context) Encode(payload []byte, chunkSize int64) ([][]byte, error) {
	size := int64(len(payload))
	required := CalcChunkSize(size, c.K)
	if chunkSize < required {
		return nil, cmn.NewError(cmn.KindInvalidArgument,
			"chunk_size %d smaller than required %d for payload of %d bytes over k=%d", chunkSize, required, size, c.K)
	}

	shards := make([][]byte, c.n)
	for i := range shards {
		shards[i] = make([]byte, chunkSize)
	}
	if chunkSize == 0 {
		return shards, nil
	}

	bytesPerChunk := (size + int64(c.K) - 1) / int64(c.K)
	off := int64(0)
	for i := 0; i < c.K; i++ {
		end := off + bytesPerChunk
		if end > size {
			end = size
		}
		if off < size {
			copy(shards[i], payload[off:end])
		}
		off = end
	}

	if err := c.enc.Encode(shards); err != nil {
		return nil, cmn.WrapError(cmn.KindCryptoError, err, "reed-solomon encode")
	}
	return shards, nil
}
