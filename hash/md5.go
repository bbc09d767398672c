package hash

import (
	"crypto/md5" //nolint:gosec // MD5 retained solely for S3 ETag wire compatibility, spec.md §4.1/§9.
	"hash"
)

// MD5Sum computes the S3 ETag digest. Not used for shard integrity -- that
// is exclusively BLAKE2b-256 (blake2b.go). There is no third-party MD5
// library in the pack or the ecosystem that improves on the standard
// library here: ETag compatibility calls for exactly RFC 1321 MD5, which
// crypto/md5 already provides with no API surface worth wrapping.
func MD5Sum(data []byte) [16]byte {
	return md5.Sum(data)
}

func NewMD5() hash.Hash {
	return md5.New()
}
