package cmn

import "time"

// Constants named verbatim from spec.md so the rest of the tree never
// re-derives a magic number.
const (
	KiB = 1024
	MiB = 1024 * KiB

	// §4.4.3 small-object inlining
	InlineThreshold = 128 * KiB

	// §4.5.2 registry cache
	MaxCacheEntries = 10_000
	CacheTTL        = 60 * time.Second

	// §4.2.2 consistent-hash ring
	DefaultVNodes = 100

	// §4.4.1 path derivation: xxhash64 seed is fixed cluster-wide so the
	// same (bucket,key) always lands on the same directory regardless of
	// which process computes it.
	PathHashSeed uint64 = 0x0123456789ABCDEF

	// §6 reserved bucket name
	RegistryBucket = ".buckets-registry"

	// §6 environment variable controlling log verbosity
	LogLevelEnvVar = "BUCKETS_LOG_LEVEL"

	// §4.3 erasure bounds
	MinK = 1
	MaxK = 16
	MinM = 1
	MaxM = 16
	MaxN = 32

	// §6 exit codes
	ExitOK        = 0
	ExitInitError = 1
	ExitBadConfig = 2
)

// ErasureProfile selects (k, m) by cluster disk count, per spec.md §3.
type ErasureProfile struct {
	MinDisks int
	K, M     int
}

// erasureProfiles is ordered from largest MinDisks to smallest; ChooseErasureConfig
// picks the first profile the disk count qualifies for.
var erasureProfiles = []ErasureProfile{
	{MinDisks: 20, K: 16, M: 4},
	{MinDisks: 16, K: 12, M: 4},
	{MinDisks: 12, K: 8, M: 4},
	{MinDisks: 6, K: 4, M: 2},
	{MinDisks: 0, K: 2, M: 1},
}

func ChooseErasureConfig(disks int) (k, m int) {
	for _, p := range erasureProfiles {
		if disks >= p.MinDisks {
			return p.K, p.M
		}
	}
	return 2, 1
}
