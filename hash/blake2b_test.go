package hash

import (
	"bytes"
	"testing"
)

func TestBlake2b256Deterministic(t *testing.T) {
	a := Blake2b256([]byte("shard-data"))
	b := Blake2b256([]byte("shard-data"))
	if a != b {
		t.Fatalf("blake2b256 not deterministic")
	}
}

func TestBlake2b256IncrementalMatchesOneShot(t *testing.T) {
	data := []byte("some shard payload bytes")
	h, err := NewBlake2b256()
	if err != nil {
		t.Fatal(err)
	}
	h.Write(data)
	sum := h.Sum(nil)
	oneShot := Blake2b256(data)
	if !bytes.Equal(sum, oneShot[:]) {
		t.Fatalf("incremental digest diverges from one-shot")
	}
}

func TestMD5SumMatchesExpectedLength(t *testing.T) {
	sum := MD5Sum([]byte("etag input"))
	if len(sum) != 16 {
		t.Fatalf("expected 16-byte md5 digest, got %d", len(sum))
	}
}
