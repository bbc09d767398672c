// Package placement implements keyed object placement: mapping an object
// name into an erasure set (spec.md §4.2.1), a consistent-hash ring for
// disk-level distribution of auxiliary state (§4.2.2), and jump-consistent
// hashing for dense contiguous bucket ranges (§4.2.3).
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package placement

import (
	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/hash"
)

// ObjectToSet implements spec.md §4.2.1: split the 16-byte deployment id
// into (k0, k1) little-endian, return siphash(k0, k1, name) mod setCount.
//
// Two distinct deployment ids hashing the same name yield independent-
// looking indices -- this is what makes cross-cluster correlation of
// object placement infeasible, since SipHash is keyed and the deployment
// id never leaves the cluster.
func ObjectToSet(name cmn.ObjectName, deploymentID cmn.DeploymentID, setCount int) (int, error) {
	if setCount <= 0 {
		return 0, cmn.NewError(cmn.KindInvalidArgument, "set_count must be > 0, got %d", setCount)
	}
	if err := cmn.ValidateObjectName(name); err != nil {
		return 0, err
	}
	k0, k1 := deploymentID.K0K1()
	key := hash.NewSipHashKey(k0, k1)
	digest := hash.SipHash64(key, name.Bytes())
	return int(digest % uint64(setCount)), nil
}
