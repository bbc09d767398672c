// Package ec implements the Reed-Solomon erasure-coding engine: encode,
// decode, and targeted reconstruction with loss of up to m shards, per
// spec.md §4.3. It wraps github.com/klauspost/reedsolomon configured with a
// Cauchy encoding matrix (the teacher's own go.mod already depends on this
// library for the same purpose -- see ec/manager.go in the teacher tree).
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package ec

import (
	"github.com/klauspost/reedsolomon"

	"github.com/NVIDIA/buckets/cmn"
)

// Context is the immutable-after-init (k, m) encoding context of spec.md
// §3 "EC Context": reusable across many encode/decode calls, and therefore
// safely shareable across goroutines (§5 "Erasure context").
type Context struct {
	K, M int
	n    int
	enc  reedsolomon.Encoder
}

// NewContext builds a reusable context for the given (k, m), validating the
// bounds of spec.md §3: 1<=k<=16, 1<=m<=16, k+m<=32.
func NewContext(k, m int) (*Context, error) {
	if k < cmn.MinK || k > cmn.MaxK {
		return nil, cmn.NewError(cmn.KindInvalidArgument, "k=%d out of range [%d,%d]", k, cmn.MinK, cmn.MaxK)
	}
	if m < cmn.MinM || m > cmn.MaxM {
		return nil, cmn.NewError(cmn.KindInvalidArgument, "m=%d out of range [%d,%d]", m, cmn.MinM, cmn.MaxM)
	}
	if k+m > cmn.MaxN {
		return nil, cmn.NewError(cmn.KindInvalidArgument, "k+m=%d exceeds max %d", k+m, cmn.MaxN)
	}
	enc, err := reedsolomon.New(k, m, reedsolomon.WithCauchyMatrix())
	if err != nil {
		return nil, cmn.WrapError(cmn.KindCryptoError, err, "init reed-solomon(k=%d,m=%d)", k, m)
	}
	return &Context{K: k, M: m, n: k + m, enc: enc}, nil
}

func (c *Context) N() int { return c.n }

// CalcChunkSize implements spec.md §4.3.1:
// ((size + k - 1)/k + 15) &^ 15 -- ceil(size/k) rounded up to a multiple of 16.
func CalcChunkSize(size int64, k int) int64 {
	if k <= 0 {
		return 0
	}
	perShard := (size + int64(k) - 1) / int64(k)
	return (perShard + 15) &^ 15
}
