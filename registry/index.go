package registry

import (
	"sort"
	"strings"
	"sync"

	cuckoo "github.com/seiflotfy/cuckoofilter"
	"github.com/tidwall/buntdb"

	"github.com/NVIDIA/buckets/cmn"
)

// index speeds up two access patterns the cache alone can't: a cheap
// negative lookup before touching storage, and an ordered scan for list().
//
// The cuckoo filter (github.com/seiflotfy/cuckoofilter, also present in the
// rest of this corpus) answers "definitely absent" in O(1) without a
// storage round trip -- registry lookups for keys that were never written
// are common on GET-after-typo and should not pay a disk seek.
//
// buntdb gives an in-memory ordered secondary index over live keys so
// list(bucket, prefix) can do a single AscendGreaterOrEqual scan instead of
// a directory walk of the reserved bucket per call.
type index struct {
	mu     sync.Mutex
	filter *cuckoo.Filter
	db     *buntdb.DB
}

func newIndex() *index {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		// buntdb's in-memory backend only fails to open on resource
		// exhaustion; there is nothing a caller could do differently.
		panic(cmn.WrapError(cmn.KindOutOfMemory, err, "open in-memory secondary index"))
	}
	return &index{
		filter: cuckoo.NewFilter(uint(cmn.MaxCacheEntries)),
		db:     db,
	}
}

func (ix *index) add(key string) {
	ix.mu.Lock()
	ix.filter.InsertUnique([]byte(key))
	ix.mu.Unlock()
	ix.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, "1", nil)
		return err
	})
}

func (ix *index) remove(key string) {
	// Cuckoo filters support deletion only of keys that were actually
	// inserted; a remove for a key never seen is a safe no-op.
	ix.mu.Lock()
	ix.filter.Delete([]byte(key))
	ix.mu.Unlock()
	ix.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
}

// maybeExists is a fast negative check: false means the key was never
// recorded, true means "maybe" (subject to storage confirmation).
func (ix *index) maybeExists(key string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.filter.Lookup([]byte(key))
}

// listKeys returns, in lexicographic order, every registered key whose
// bucket matches and whose object segment has the given prefix.
func (ix *index) listKeys(bucket, prefix string, maxKeys int) []string {
	bucketPrefix := bucket + "/" + prefix
	var out []string
	ix.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendGreaterOrEqual("", bucketPrefix, func(key, _ string) bool {
			if !strings.HasPrefix(key, bucket+"/") {
				return false
			}
			_, object, _, err := ParseKey(key)
			if err == nil && strings.HasPrefix(object, prefix) {
				out = append(out, key)
			}
			return maxKeys <= 0 || len(out) < maxKeys
		})
	})
	sort.Strings(out)
	if maxKeys > 0 && len(out) > maxKeys {
		out = out[:maxKeys]
	}
	return out
}
