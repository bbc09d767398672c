// Package fs provides content-addressed directory paths, per-shard chunk
// I/O, and on-disk layout invariants, per spec.md §4.4.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package fs

import (
	"fmt"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/hash"
)

// ObjectHash is the deterministic, 16-hex-char xxHash-64 of "bucket/key"
// under the fixed path-derivation seed, spec.md §4.4.1.
func ObjectHash(bucket, key string) string {
	digest := hash.XXHash64String(cmn.PathHashSeed, bucket+"/"+key)
	return fmt.Sprintf("%016x", digest)
}

// RelObjectDir is "<first two hex chars>/<16 hex chars>" (no trailing
// slash), the object's directory relative to a disk root, per spec.md §3
// ObjectPath.
func RelObjectDir(bucket, key string) string {
	h := ObjectHash(bucket, key)
	return h[:2] + "/" + h
}

// Path is a small typed path builder replacing ad-hoc string concatenation,
// per Design Note "string-heavy path construction". It holds only the disk
// root; ObjectDir, Part and Meta return absolute path strings under it.
type Path struct {
	root string // disk root, e.g. "/mnt/disk0"
}

func NewPath(root string) Path { return Path{root: root} }

func (p Path) Root() string { return p.root }

// ObjectDir returns the absolute object directory for (bucket, key) under
// this disk root.
func (p Path) ObjectDir(bucket, key string) string {
	return p.root + "/" + RelObjectDir(bucket, key)
}

// Part returns the absolute path of the 1-based shard file part.<index>.
func (p Path) Part(bucket, key string, index int) string {
	return p.ObjectDir(bucket, key) + fmt.Sprintf("/part.%d", index)
}

// Meta returns the absolute path of the object's xl.meta descriptor.
func (p Path) Meta(bucket, key string) string {
	return p.ObjectDir(bucket, key) + "/xl.meta"
}

const (
	ObjectType   = "ob"
	MetaFileName = "xl.meta"
)
