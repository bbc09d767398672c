// Package stats exposes the engine's Prometheus metrics and a periodic
// disk I/O sampler, grounded on the prometheus/client_golang dependency
// the teacher's go.mod already carries (see metrics.go in this corpus's
// rpcpool-yellowstone-faithful repo for the promauto idiom this follows).
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buckets_registry_cache_hits_total",
		Help: "Location registry cache hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buckets_registry_cache_misses_total",
		Help: "Location registry cache misses.",
	})
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buckets_registry_cache_evictions_total",
		Help: "Location registry cache LRU evictions.",
	})

	ShardIOLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "buckets_shard_io_latency_seconds",
		Help:    "Per-shard read/write latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	ObjectOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buckets_object_ops_total",
		Help: "PUT/GET/DELETE outcomes.",
	}, []string{"op", "outcome"})

	ReconstructionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buckets_reconstructions_total",
		Help: "GETs that required erasure reconstruction.",
	})
)

// ObserveCacheStats feeds the process-wide counters from a point-in-time
// registry.Stats snapshot. These are counters, so cumulative totals would
// double count across polls; the caller passes deltas; pipelines that
// already track their own since-last-poll deltas (e.g. registry.Service's
// caller) should call this once per sample interval.
func ObserveCacheStats(hitsDelta, missesDelta, evictionsDelta uint64) {
	CacheHits.Add(float64(hitsDelta))
	CacheMisses.Add(float64(missesDelta))
	CacheEvictions.Add(float64(evictionsDelta))
}
