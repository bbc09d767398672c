package hash

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Blake2b256 is the one-shot BLAKE2b-256 digest used for shard integrity
// checksums, spec.md §4.1/§4.4.5. Never used for ETag -- see md5.go.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// NewBlake2b256 returns an incremental hash.Hash for streaming input.
func NewBlake2b256() (hash.Hash, error) {
	return blake2b.New256(nil)
}
