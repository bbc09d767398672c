package pipeline

import (
	"encoding/hex"

	"github.com/NVIDIA/buckets/asyncio"
	"github.com/NVIDIA/buckets/cluster"
	"github.com/NVIDIA/buckets/cmn/cos"
	"github.com/NVIDIA/buckets/fs"
)

func mustHex(s string) []byte {
	b, _ := hex.DecodeString(s)
	return b
}

type readResult struct {
	index int
	data  []byte
	err   error
}

// readShardsEarlyStop issues one concurrent read per disk in set and
// returns as soon as k of them verify against their checksum, per spec.md
// §4.6 GET step 2 "abort early as soon as k valid shards are present".
// Reads already in flight when the threshold is hit are left to finish in
// the background; the pool doesn't support cancellation, and discarding
// their result costs nothing since shard buffers are GC'd, not pooled,
// past this point.
func readShardsEarlyStop(pool *asyncio.Pool, set cluster.Set, bucket, key string, n, k int, descs []fs.ShardDescriptor) ([][]byte, error) {
	results := make(chan readResult, n)
	for i := 0; i < n; i++ {
		i := i
		disk := set.Disks[i%len(set.Disks)]
		pool.Submit(func() error {
			p := fs.NewPath(disk.Root)
			data, err := fs.ReadChunk(p.Part(bucket, key, i+1))
			if err == nil && data != nil && i < len(descs) {
				want := cos.NewCksum(descs[i].Algo, mustHex(descs[i].Digest))
				if verr := fs.VerifyChunk(data, want); verr != nil {
					data, err = nil, verr
				}
			}
			results <- readResult{index: i, data: data, err: err}
			return err
		})
	}

	shards := make([][]byte, n)
	good := 0
	for received := 0; received < n; received++ {
		r := <-results
		if r.err == nil && r.data != nil {
			shards[r.index] = r.data
			good++
		}
		if good >= k {
			break
		}
	}
	return shards, nil
}
