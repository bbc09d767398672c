package hash

import (
	"hash"

	"github.com/OneOfOne/xxhash"
)

// XXHash64Seeded is the one-shot seeded xxHash-64 digest, used for ring
// vnode placement (spec.md §4.2.2) and object-path derivation (§4.4.1).
func XXHash64Seeded(seed uint64, data []byte) uint64 {
	h := xxhash.NewS64(seed)
	h.Write(data)
	return h.Sum64()
}

// XXHash64String is XXHash64Seeded over a string without an extra copy.
func XXHash64String(seed uint64, s string) uint64 {
	h := xxhash.NewS64(seed)
	h.WriteString(s)
	return h.Sum64()
}

// NewXXHash64 returns an incremental hash.Hash64, per the
// init/update/final contract of spec.md §4.1.
func NewXXHash64(seed uint64) hash.Hash64 {
	return xxhash.NewS64(seed)
}
