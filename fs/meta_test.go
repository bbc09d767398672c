package fs

import (
	"math/rand"
	"path/filepath"
	"testing"
)

func TestEncodeInlinePrefersLZ4ForCompressiblePayload(t *testing.T) {
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = 'a'
	}
	b64, codec, err := EncodeInline(payload)
	if err != nil {
		t.Fatal(err)
	}
	if codec != InlineCodecLZ4 {
		t.Fatalf("expected lz4 codec for highly compressible payload, got %q", codec)
	}
	out, err := DecodeInline(b64, codec)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(payload) {
		t.Fatal("decoded payload does not match original")
	}
}

func TestEncodeInlineFallsBackToRawForIncompressiblePayload(t *testing.T) {
	payload := make([]byte, 256)
	rng := rand.New(rand.NewSource(1))
	rng.Read(payload)

	b64, codec, err := EncodeInline(payload)
	if err != nil {
		t.Fatal(err)
	}
	if codec != InlineCodecRaw {
		t.Fatalf("expected raw codec for incompressible payload, got %q", codec)
	}
	out, err := DecodeInline(b64, codec)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(payload) {
		t.Fatal("decoded payload does not match original")
	}
}

func TestDecodeInlineRejectsUnknownCodec(t *testing.T) {
	if _, err := DecodeInline("AAAA", "zstd"); err == nil {
		t.Fatal("expected error for unknown inline codec")
	}
}

func TestDecodeInlineTreatsEmptyCodecAsRaw(t *testing.T) {
	b64, _, err := EncodeInline([]byte{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeInline(b64, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty payload, got %v", out)
	}
}

func TestSaveLoadMetaRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xl.meta")
	meta := &XLMeta{
		Meta:      ObjectMeta{ContentType: "application/octet-stream"},
		Erasure:   ErasureMeta{K: 4, M: 2},
		ChunkSize: 1024,
		Size:      4096,
		VersionID: "latest",
		Shards: []ShardDescriptor{
			{Index: 1, Algo: "BLAKE2b-256", Digest: "deadbeef"},
			{Index: 2, Algo: "BLAKE2b-256", Digest: "cafef00d"},
		},
	}
	if err := SaveMeta(path, meta); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Erasure != meta.Erasure {
		t.Fatalf("Erasure mismatch: %+v != %+v", loaded.Erasure, meta.Erasure)
	}
	if loaded.Size != meta.Size || loaded.ChunkSize != meta.ChunkSize {
		t.Fatalf("size/chunk_size mismatch: %+v", loaded)
	}
	if len(loaded.Shards) != len(meta.Shards) {
		t.Fatalf("shard count mismatch: %d != %d", len(loaded.Shards), len(meta.Shards))
	}
}

func TestSaveMetaInlineObjectOmitsErasureShards(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xl.meta")
	b64, codec, err := EncodeInline([]byte("tiny object"))
	if err != nil {
		t.Fatal(err)
	}
	meta := &XLMeta{
		Meta:        ObjectMeta{ContentType: "text/plain"},
		Size:        11,
		VersionID:   "latest",
		Inline:      b64,
		InlineCodec: codec,
	}
	if err := SaveMeta(path, meta); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadMeta(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Inline == "" {
		t.Fatal("expected inline payload to round-trip")
	}
	if len(loaded.Shards) != 0 {
		t.Fatalf("expected no shards for inline object, got %d", len(loaded.Shards))
	}
	out, err := DecodeInline(loaded.Inline, loaded.InlineCodec)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "tiny object" {
		t.Fatalf("decoded inline payload = %q", out)
	}
}
