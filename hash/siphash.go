// Package hash implements the four keyed/unkeyed hash primitives the rest of
// the tree is built on, per spec.md §4.1: SipHash-2-4, xxHash-64, BLAKE2b-256
// and MD5 (the last reserved for S3 ETag compatibility only).
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package hash

import (
	"hash"

	"github.com/aead/siphash"
)

// SipHashKey is the 128-bit SipHash-2-4 key, split into two little-endian
// 64-bit words (k0, k1) per the reference construction. A DeploymentID
// (spec.md §3) is exactly this shape.
type SipHashKey [16]byte

func NewSipHashKey(k0, k1 uint64) SipHashKey {
	var k SipHashKey
	putLE64(k[0:8], k0)
	putLE64(k[8:16], k1)
	return k
}

func (k SipHashKey) Split() (k0, k1 uint64) {
	return getLE64(k[0:8]), getLE64(k[8:16])
}

// SipHash64 is the one-shot 64-bit SipHash-2-4 digest of data under key.
// Required to match the 16 official test vectors bit-for-bit, spec.md §8.
func SipHash64(key SipHashKey, data []byte) uint64 {
	k := [16]byte(key)
	return siphash.Sum64(data, &k)
}

// SipHash128 is the one-shot 128-bit variant.
func SipHash128(key SipHashKey, data []byte) [16]byte {
	k := [16]byte(key)
	return siphash.Sum128(data, &k)
}

// NewSipHash64 returns an incremental hash.Hash64 for streaming input,
// per the init/update/final contract of spec.md §4.1.
func NewSipHash64(key SipHashKey) (hash.Hash64, error) {
	k := [16]byte(key)
	return siphash.New64(&k)
}

func putLE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}

func getLE64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
