// Package registry is the authoritative (bucket, object, version) ->
// location mapping, self-hosted on top of fs/ec storage, per spec.md §4.5.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package registry

import (
	"strings"

	"github.com/NVIDIA/buckets/cmn"
)

const LatestVersion = "latest"

// BuildKey joins bucket/object/version into the registry's flat key space,
// per spec.md §4.5.4.
func BuildKey(bucket, object, version string) string {
	if version == "" {
		version = LatestVersion
	}
	return bucket + "/" + object + "/" + version
}

// ParseKey reverses BuildKey. The object segment may itself contain "/", so
// only the first slash (bucket boundary) and the last slash (version
// boundary) are significant -- mirroring spec.md §4.5.4's "first two from
// the left" rule, applied from both ends so embedded slashes in the object
// key survive the round trip.
func ParseKey(key string) (bucket, object, version string, err error) {
	first := strings.IndexByte(key, '/')
	last := strings.LastIndexByte(key, '/')
	if first < 0 || last <= first {
		return "", "", "", cmn.NewError(cmn.KindInvalidArgument, "malformed registry key %q: need at least two '/'", key)
	}
	bucket = key[:first]
	object = key[first+1 : last]
	version = key[last+1:]
	if bucket == "" || object == "" || version == "" {
		return "", "", "", cmn.NewError(cmn.KindInvalidArgument, "malformed registry key %q: empty segment", key)
	}
	return bucket, object, version, nil
}

// StorageObjectKey is the object key under which a location record is
// persisted inside the reserved registry bucket: "bucket/object/version.json".
func StorageObjectKey(bucket, object, version string) string {
	return BuildKey(bucket, object, version) + ".json"
}
