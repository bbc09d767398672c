// Package cos (common OS) provides low-level filesystem and checksum
// utilities shared by the storage layer and the metadata persistence layer.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"crypto/subtle"
	"encoding/hex"
)

const (
	ChecksumBlake2b = "BLAKE2b-256"
	ChecksumMD5     = "md5" // ETag compatibility only, see hash/md5.go
	ChecksumNone    = "none"
)

// Cksum is the generic (algo, digest) pair used both for per-shard integrity
// (BLAKE2b-256, §4.1/§4.4.5) and for S3 ETag compatibility (MD5). The two
// are never interchangeable: Algo disambiguates which one a value came from.
type Cksum struct {
	Algo   string `json:"algo"`
	Digest []byte `json:"digest"`
}

func NewCksum(algo string, digest []byte) *Cksum {
	return &Cksum{Algo: algo, Digest: digest}
}

func (c *Cksum) String() string {
	if c == nil {
		return ChecksumNone
	}
	return c.Algo + ":" + hex.EncodeToString(c.Digest)
}

// Equal performs a constant-time comparison of the digest bytes, per
// spec.md §4.4.5 "verify ... in constant time".
func (c *Cksum) Equal(other *Cksum) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Algo != other.Algo || len(c.Digest) != len(other.Digest) {
		return false
	}
	return subtle.ConstantTimeCompare(c.Digest, other.Digest) == 1
}

// HexDigest is the lowercase hex encoding of the digest, as stored in xl.meta.
func (c *Cksum) HexDigest() string {
	if c == nil {
		return ""
	}
	return hex.EncodeToString(c.Digest)
}
