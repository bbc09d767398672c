package fs

import (
	"path/filepath"
	"testing"
)

func TestWriteReadChunkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	part := filepath.Join(dir, "part.1")
	payload := []byte("erasure-coded shard payload")

	cksum, err := WriteChunk(part, payload)
	if err != nil {
		t.Fatal(err)
	}
	if cksum.Algo != "BLAKE2b-256" {
		t.Fatalf("unexpected checksum algo %q", cksum.Algo)
	}

	got, err := ReadChunk(part)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("ReadChunk() = %q, want %q", got, payload)
	}

	if err := VerifyChunk(got, cksum); err != nil {
		t.Fatalf("VerifyChunk failed on untouched data: %v", err)
	}
}

func TestReadChunkMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	data, err := ReadChunk(filepath.Join(dir, "absent.part"))
	if err != nil {
		t.Fatalf("expected nil error for missing shard, got %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil data for missing shard, got %v", data)
	}
}

func TestVerifyChunkDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	part := filepath.Join(dir, "part.1")
	cksum, err := WriteChunk(part, []byte("original"))
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyChunk([]byte("tampered"), cksum); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestDeleteChunkIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	part := filepath.Join(dir, "part.1")
	if _, err := WriteChunk(part, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := DeleteChunk(part); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := DeleteChunk(part); err != nil {
		t.Fatalf("second delete on absent shard should be a no-op: %v", err)
	}
	if Exists(part) {
		t.Fatal("chunk still reported as existing after delete")
	}
}

func TestWriteChunkCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	part := filepath.Join(dir, "a1", "deadbeefcafef00d", "part.2")
	if _, err := WriteChunk(part, []byte("nested")); err != nil {
		t.Fatal(err)
	}
	if !Exists(part) {
		t.Fatal("expected chunk to exist after write")
	}
}
