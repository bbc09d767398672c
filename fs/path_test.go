package fs

import "testing"

func TestObjectHashIsDeterministic(t *testing.T) {
	a := ObjectHash("bucket1", "key/one")
	b := ObjectHash("bucket1", "key/one")
	if a != b {
		t.Fatalf("ObjectHash not deterministic: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%s)", len(a), a)
	}
}

func TestObjectHashDistinguishesKeys(t *testing.T) {
	a := ObjectHash("bucket1", "key/one")
	b := ObjectHash("bucket1", "key/two")
	if a == b {
		t.Fatalf("expected distinct hashes for distinct keys, both %s", a)
	}
}

func TestRelObjectDirPrefixMatchesHash(t *testing.T) {
	h := ObjectHash("b", "k")
	rel := RelObjectDir("b", "k")
	want := h[:2] + "/" + h
	if rel != want {
		t.Fatalf("RelObjectDir() = %q, want %q", rel, want)
	}
}

func TestPathBuildersAreStableAcrossCalls(t *testing.T) {
	p := NewPath("/mnt/disk0")
	dir1 := p.ObjectDir("bucket1", "obj1")
	dir2 := p.ObjectDir("bucket1", "obj1")
	if dir1 != dir2 {
		t.Fatalf("ObjectDir not stable: %s != %s", dir1, dir2)
	}
	if got, want := p.Meta("bucket1", "obj1"), dir1+"/xl.meta"; got != want {
		t.Fatalf("Meta() = %q, want %q", got, want)
	}
	if got, want := p.Part("bucket1", "obj1", 3), dir1+"/part.3"; got != want {
		t.Fatalf("Part() = %q, want %q", got, want)
	}
}

func TestPathRootRoundTrips(t *testing.T) {
	p := NewPath("/mnt/disk7")
	if p.Root() != "/mnt/disk7" {
		t.Fatalf("Root() = %q", p.Root())
	}
}
