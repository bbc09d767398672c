package registry

import (
	"fmt"
	"testing"
	"time"
)

func rec(bucket, object string) *LocationRecord {
	return &LocationRecord{Bucket: bucket, Object: object, VersionID: LatestVersion, DiskIdxs: []int{0, 1, 2}}
}

// spec.md §8: record(L) then lookup(L.key) without intervening eviction
// returns a structural clone of L.
func TestCacheRecordThenLookupReturnsClone(t *testing.T) {
	c := NewCache(100, time.Minute)
	l := rec("b", "o")
	c.Put("b/o/latest", l)
	got, ok := c.Get("b/o/latest")
	if !ok {
		t.Fatal("expected a hit")
	}
	if got == l {
		t.Fatal("expected a clone, got the same pointer")
	}
	if got.Bucket != l.Bucket || got.Object != l.Object {
		t.Fatalf("clone mismatch: %+v vs %+v", got, l)
	}
}

func TestCacheMissIncrementsStats(t *testing.T) {
	c := NewCache(100, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected a miss")
	}
	if c.Stats().Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", c.Stats().Misses)
	}
}

func TestCacheExpiryCountsAsMiss(t *testing.T) {
	c := NewCache(100, time.Nanosecond)
	c.Put("k", rec("b", "o"))
	time.Sleep(time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to be a miss")
	}
}

func TestCacheEvictsLRUTailAtCapacity(t *testing.T) {
	c := NewCache(3, time.Minute)
	c.Put("a", rec("b", "a"))
	c.Put("b", rec("b", "b"))
	c.Put("c", rec("b", "c"))
	c.Get("a") // promote a to MRU, b is now LRU
	c.Put("d", rec("b", "d"))
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to have been evicted as LRU")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive eviction")
	}
	if c.Stats().Evictions != 1 {
		t.Fatalf("expected 1 eviction, got %d", c.Stats().Evictions)
	}
}

func TestCacheRemoveToleratesAbsentKey(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Remove("never-existed") // must not panic
}

func TestCacheHitRateDerivation(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Put("k", rec("b", "o"))
	c.Get("k")
	c.Get("k")
	c.Get("missing")
	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	want := 2.0 / 3.0
	if stats.HitRate != want {
		t.Fatalf("expected hit rate %v, got %v", want, stats.HitRate)
	}
}

func TestCacheManyKeysDistributeAcrossBuckets(t *testing.T) {
	c := NewCache(1000, time.Minute)
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("bucket/object-%d/latest", i)
		c.Put(key, rec("bucket", fmt.Sprintf("object-%d", i)))
	}
	if c.Stats().EntryCount != 500 {
		t.Fatalf("expected 500 entries, got %d", c.Stats().EntryCount)
	}
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("bucket/object-%d/latest", i)
		if _, ok := c.Get(key); !ok {
			t.Fatalf("expected key %q present", key)
		}
	}
}
