package pipeline

import (
	"bytes"
	"testing"

	"github.com/NVIDIA/buckets/asyncio"
	"github.com/NVIDIA/buckets/cluster"
	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/ec"
	"github.com/NVIDIA/buckets/fs"
	"github.com/NVIDIA/buckets/registry"
)

func newTestServiceWithDisks(t *testing.T, numDisks int) *Service {
	t.Helper()
	roots := make([]string, numDisks)
	for i := range roots {
		roots[i] = t.TempDir()
	}
	topo, err := cluster.BuildTopology(roots, numDisks)
	if err != nil {
		t.Fatal(err)
	}
	cfg := cmn.DefaultConfig()
	cfg.DiskRoots = roots

	regRoots := make([]string, numDisks)
	for i := range regRoots {
		regRoots[i] = t.TempDir()
	}
	regMp, err := fs.NewMountpaths(regRoots)
	if err != nil {
		t.Fatal(err)
	}
	k, m := cmn.ChooseErasureConfig(numDisks)
	regCtx, err := ec.NewContext(k, m)
	if err != nil {
		t.Fatal(err)
	}
	reg := registry.NewService(registry.NewStore(regMp, regCtx, cfg), cfg)

	pool := asyncio.NewPool(4, 0)
	t.Cleanup(pool.Close)

	var depID cmn.DeploymentID
	return NewService(cfg, topo, depID, reg, pool)
}

func TestPutGetRoundTripInline(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	payload := []byte("small object body")
	etag, size, err := s.PutObject("mybucket", "small.txt", payload, "text/plain")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
	got, getEtag, err := s.GetObject("mybucket", "small.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q want %q", got, payload)
	}
	if etag != getEtag {
		t.Fatalf("etag mismatch: put=%s get=%s", etag, getEtag)
	}
}

func TestPutGetRoundTripErasureCoded(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	s.cfg.InlineThreshold = 1 // force erasure-coded path
	payload := bytes.Repeat([]byte("erasure-coded-payload-"), 2000)
	etag, _, err := s.PutObject("mybucket", "big.bin", payload, "application/octet-stream")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	got, getEtag, err := s.GetObject("mybucket", "big.bin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("round trip mismatch for erasure-coded payload")
	}
	if etag != getEtag {
		t.Fatalf("etag mismatch: put=%s get=%s", etag, getEtag)
	}
}

func TestGetSurvivesDiskLoss(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	s.cfg.InlineThreshold = 1
	payload := bytes.Repeat([]byte("resilient-"), 5000)
	if _, _, err := s.PutObject("b", "k", payload, ""); err != nil {
		t.Fatalf("put: %v", err)
	}

	loc, err := s.registry.Lookup("b", "k", "")
	if err != nil {
		t.Fatal(err)
	}
	_, set, err := s.topo.Resolve(loc.PoolIdx, loc.SetIdx)
	if err != nil {
		t.Fatal(err)
	}
	// Destroy up to m=2 shards; decode must still succeed.
	for i, d := range set.Disks {
		if i >= 2 {
			break
		}
		p := fs.NewPath(d.Root)
		_ = fs.DeleteChunk(p.Part("b", "k", i+1))
	}

	got, _, err := s.GetObject("b", "k")
	if err != nil {
		t.Fatalf("expected reconstruction to succeed with 2 shards missing: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("reconstructed payload mismatch")
	}
}

func TestGetNoSuchKey(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	if _, _, err := s.GetObject("b", "never-put"); err == nil {
		t.Fatal("expected NoSuchKey error")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	if _, _, err := s.PutObject("b", "k", []byte("x"), ""); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteObject("b", "k"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteObject("b", "k"); err != nil {
		t.Fatalf("second delete on absent object should succeed: %v", err)
	}
	if _, _, err := s.GetObject("b", "k"); err == nil {
		t.Fatal("expected NoSuchKey after delete")
	}
}

func TestPutRejectsInvalidBucketName(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	if _, _, err := s.PutObject("AB", "k", []byte("x"), ""); err == nil {
		t.Fatal("expected validation error for too-short uppercase bucket name")
	}
}

func TestPutRejectsReservedBucket(t *testing.T) {
	s := newTestServiceWithDisks(t, 6)
	if _, _, err := s.PutObject(cmn.RegistryBucket, "k", []byte("x"), ""); err == nil {
		t.Fatal("expected rejection of writes to the reserved registry bucket")
	}
}
