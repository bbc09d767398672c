package registry

import (
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/cmn/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Service is the location registry of spec.md §4.5: cache-first lookups
// backed by self-hosted storage, with a cuckoo-filter/buntdb index to avoid
// needless storage round trips. It takes the place of the package-level
// globals the teacher's older registries used, per the "Global singletons"
// design note -- everything is a method on an owned instance.
type Service struct {
	store *Store
	cache *Cache
	idx   *index
	gen   int64
}

func NewService(store *Store, cfg *cmn.Config) *Service {
	svc := &Service{
		store: store,
		cache: NewCache(cfg.MaxCacheEntries, cfg.CacheTTL),
		idx:   newIndex(),
	}
	svc.rebuildIndex()
	return svc
}

// rebuildIndex scans the reserved registry bucket so the cuckoo-filter/
// buntdb index reflects what is durably on disk before the first lookup,
// per spec.md §4.5.1. Without this, maybeExists reports every record
// absent after a restart -- a record is only ever added to the index by
// Record -- until something happens to re-record it.
func (s *Service) rebuildIndex() {
	n := 0
	err := s.store.Walk(func(loc *LocationRecord) error {
		s.idx.add(BuildKey(loc.Bucket, loc.Object, loc.VersionID))
		n++
		return nil
	})
	if err != nil {
		log.Warnf("registry: index rebuild scan failed: %v", err)
		return
	}
	log.Infof("registry: rebuilt index with %d record(s)", n)
}

// Record persists loc and populates the cache, per spec.md §4.5.3. It is
// idempotent: recording the same (bucket, object, version_id, generation)
// twice produces the same stored bytes.
func (s *Service) Record(loc *LocationRecord) error {
	if loc.Generation == 0 {
		loc.Generation = atomic.AddInt64(&s.gen, 1)
	}
	if loc.VersionID == "" {
		loc.VersionID = LatestVersion
	}
	key := BuildKey(loc.Bucket, loc.Object, loc.VersionID)
	payload, err := json.Marshal(loc)
	if err != nil {
		return cmn.WrapError(cmn.KindInvalidArgument, err, "marshal location record %s", key)
	}
	if err := s.store.Put(cmn.RegistryBucket, StorageObjectKey(loc.Bucket, loc.Object, loc.VersionID), payload); err != nil {
		return err
	}
	s.cache.Put(key, loc)
	s.idx.add(key)
	return nil
}

// Lookup resolves (bucket, object, version) to its LocationRecord, cache
// first. versionID == "" means "latest", per spec.md §4.5.3.
func (s *Service) Lookup(bucket, object, versionID string) (*LocationRecord, error) {
	if versionID == "" {
		versionID = LatestVersion
	}
	key := BuildKey(bucket, object, versionID)

	if loc, ok := s.cache.Get(key); ok {
		return loc, nil
	}

	if !s.idx.maybeExists(key) {
		return nil, cmn.NewError(cmn.KindNotFound, "no such key: %s", key)
	}

	payload, err := s.store.Get(cmn.RegistryBucket, StorageObjectKey(bucket, object, versionID))
	if err != nil {
		return nil, cmn.WrapError(cmn.KindNotFound, err, "no such key: %s", key)
	}
	var loc LocationRecord
	if err := json.Unmarshal(payload, &loc); err != nil {
		return nil, cmn.WrapError(cmn.KindIOError, err, "corrupt location record %s", key)
	}
	if loc.IsDeleteMarker() {
		return nil, cmn.NewError(cmn.KindNotFound, "no such key: %s", key)
	}
	s.cache.Put(key, &loc)
	return loc.Clone(), nil
}

// Delete removes the registry record for (bucket, object, version),
// tolerating an already-absent entry, per spec.md §4.5.3.
func (s *Service) Delete(bucket, object, versionID string) error {
	if versionID == "" {
		versionID = LatestVersion
	}
	key := BuildKey(bucket, object, versionID)
	_ = s.store.Delete(cmn.RegistryBucket, StorageObjectKey(bucket, object, versionID))
	s.cache.Remove(key)
	s.idx.remove(key)
	return nil
}

// Update is invalidate-then-record, so no cache observer can see a stale
// entry interleaved with the new one, per spec.md §4.5.3.
func (s *Service) Update(loc *LocationRecord) error {
	key := BuildKey(loc.Bucket, loc.Object, loc.VersionID)
	s.cache.Remove(key)
	s.idx.remove(key)
	loc.Generation = 0 // force a fresh generation
	return s.Record(loc)
}

// List scans for records in bucket whose object key starts with prefix,
// skipping delete markers, returning at most maxKeys in lexicographic
// order, per spec.md §4.5.3.
func (s *Service) List(bucket, prefix string, maxKeys int) ([]*LocationRecord, error) {
	keys := s.idx.listKeys(bucket, prefix, 0) // index may include tombstones; filter below
	out := make([]*LocationRecord, 0, len(keys))
	for _, key := range keys {
		b, object, version, err := ParseKey(key)
		if err != nil || b != bucket {
			continue
		}
		loc, err := s.Lookup(b, object, version)
		if err != nil {
			continue
		}
		out = append(out, loc)
		if maxKeys > 0 && len(out) >= maxKeys {
			break
		}
	}
	return out, nil
}

// BatchResult is the outcome of one item in a record_batch/lookup_batch
// call, per spec.md §4.5.3.
type BatchResult struct {
	Index int
	Err   error
}

// RecordBatch sequentially records every item, returning the count that
// succeeded and the per-item outcome.
func (s *Service) RecordBatch(locs []*LocationRecord) (succeeded int, results []BatchResult) {
	results = make([]BatchResult, len(locs))
	for i, loc := range locs {
		err := s.Record(loc)
		results[i] = BatchResult{Index: i, Err: err}
		if err == nil {
			succeeded++
		}
	}
	return succeeded, results
}

// LookupResult is the outcome of one LookupBatch item: its record on
// success, or the lookup error.
type LookupResult struct {
	Index    int
	Location *LocationRecord
	Err      error
}

func (s *Service) LookupBatch(keys []RegistryKeyTuple) (succeeded int, results []LookupResult) {
	results = make([]LookupResult, len(keys))
	for i, k := range keys {
		loc, err := s.Lookup(k.Bucket, k.Object, k.VersionID)
		results[i] = LookupResult{Index: i, Location: loc, Err: err}
		if err == nil {
			succeeded++
		}
	}
	return succeeded, results
}

// RegistryKeyTuple names one lookup_batch item.
type RegistryKeyTuple struct {
	Bucket, Object, VersionID string
}

// CacheStats exposes the underlying cache's statistics for /metrics.
func (s *Service) CacheStats() Stats { return s.cache.Stats() }

// NewDeleteMarker builds a tombstone record written in place of a real
// location, so list() can recognize and skip it.
func NewDeleteMarker(bucket, object string) *LocationRecord {
	return &LocationRecord{
		Bucket:    bucket,
		Object:    object,
		VersionID: DeleteMarkerPrefix + cmn.GenTie(),
		ModTime:   time.Now(),
	}
}
