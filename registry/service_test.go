package registry

import (
	"testing"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/ec"
	"github.com/NVIDIA/buckets/fs"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	roots := []string{t.TempDir(), t.TempDir(), t.TempDir(), t.TempDir()}
	mp, err := fs.NewMountpaths(roots)
	if err != nil {
		t.Fatal(err)
	}
	k, m := cmn.ChooseErasureConfig(len(roots))
	ctx, err := ec.NewContext(k, m)
	if err != nil {
		t.Fatal(err)
	}
	cfg := cmn.DefaultConfig()
	store := NewStore(mp, ctx, cfg)
	return NewService(store, cfg)
}

func TestServiceRecordThenLookup(t *testing.T) {
	s := newTestService(t)
	loc := &LocationRecord{Bucket: "b", Object: "o", PoolIdx: 0, SetIdx: 0, DiskCount: 4, DiskIdxs: []int{0, 1, 2, 3}, Size: 42}
	if err := s.Record(loc); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := s.Lookup("b", "o", "")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Size != 42 || got.DiskCount != 4 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestServiceLookupMissFastPath(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Lookup("b", "never-recorded", ""); err == nil {
		t.Fatal("expected NotFound for a key never recorded")
	} else if !cmn.IsNotFound(err) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestServiceDeleteThenLookupFails(t *testing.T) {
	s := newTestService(t)
	loc := &LocationRecord{Bucket: "b", Object: "o"}
	if err := s.Record(loc); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("b", "o", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Lookup("b", "o", ""); !cmn.IsNotFound(err) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}

func TestServiceDeleteTolerantOfAbsentEntry(t *testing.T) {
	s := newTestService(t)
	if err := s.Delete("b", "never-there", ""); err != nil {
		t.Fatalf("delete of absent entry should not error: %v", err)
	}
}

func TestServiceListOrdersByObjectKey(t *testing.T) {
	s := newTestService(t)
	for _, o := range []string{"c", "a", "b"} {
		if err := s.Record(&LocationRecord{Bucket: "bkt", Object: o}); err != nil {
			t.Fatal(err)
		}
	}
	locs, err := s.List("bkt", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(locs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(locs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if locs[i].Object != want {
			t.Fatalf("expected lexicographic order, got %q at index %d", locs[i].Object, i)
		}
	}
}

func TestServiceListRespectsPrefixAndMaxKeys(t *testing.T) {
	s := newTestService(t)
	for _, o := range []string{"logs/1", "logs/2", "images/1"} {
		if err := s.Record(&LocationRecord{Bucket: "bkt", Object: o}); err != nil {
			t.Fatal(err)
		}
	}
	locs, err := s.List("bkt", "logs/", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(locs) != 1 {
		t.Fatalf("expected max_keys=1 to cap results, got %d", len(locs))
	}
	if locs[0].Object != "logs/1" {
		t.Fatalf("expected logs/1, got %q", locs[0].Object)
	}
}

func TestServiceRecordBatchReportsPerItemResults(t *testing.T) {
	s := newTestService(t)
	locs := []*LocationRecord{
		{Bucket: "b", Object: "ok1"},
		{Bucket: "b", Object: "ok2"},
	}
	succeeded, results := s.RecordBatch(locs)
	if succeeded != 2 {
		t.Fatalf("expected 2 successes, got %d", succeeded)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestServiceUpdateInvalidatesThenRecords(t *testing.T) {
	s := newTestService(t)
	loc := &LocationRecord{Bucket: "b", Object: "o", Size: 1}
	if err := s.Record(loc); err != nil {
		t.Fatal(err)
	}
	updated := &LocationRecord{Bucket: "b", Object: "o", Size: 2}
	if err := s.Update(updated); err != nil {
		t.Fatal(err)
	}
	got, err := s.Lookup("b", "o", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != 2 {
		t.Fatalf("expected updated size 2, got %d", got.Size)
	}
}
