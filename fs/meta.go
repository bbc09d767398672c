package fs

import (
	"encoding/base64"
	"bytes"
	"io"
	"time"

	"github.com/pierrec/lz4/v3"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/cmn/jsp"
)

// ShardDescriptor is one entry of xl.meta's "shards" array, per spec.md §6.
type ShardDescriptor struct {
	Index  int    `json:"index"`
	Algo   string `json:"algo"`
	Digest string `json:"digest"`
}

// ObjectMeta holds the "meta" sub-object of xl.meta: content-type and
// caller-supplied user metadata.
type ObjectMeta struct {
	ContentType string            `json:"content-type"`
	UserMeta    map[string]string `json:"user-metadata,omitempty"`
}

// ErasureMeta is the "erasure" sub-object of xl.meta.
type ErasureMeta struct {
	K int `json:"k"`
	M int `json:"m"`
}

// XLMeta is the exact on-disk descriptor of spec.md §4.4.2/§6: JSON with
// erasure (k,m), chunk_size, size (the payload size), per-shard checksums,
// content-type, modified time, optional inline data, and the version id.
type XLMeta struct {
	Meta        ObjectMeta        `json:"meta"`
	Erasure     ErasureMeta       `json:"erasure"`
	ChunkSize   int64             `json:"chunk_size"`
	Size        int64             `json:"size"`
	VersionID   string            `json:"version_id"`
	ModTime     time.Time         `json:"mod_time"`
	Inline      string            `json:"inline,omitempty"`       // base64, optional
	InlineCodec string            `json:"inline_codec,omitempty"` // "raw" (default) or "lz4"
	Shards      []ShardDescriptor `json:"shards,omitempty"`
}

func SaveMeta(path string, m *XLMeta) error {
	return jsp.Save(path, m)
}

func LoadMeta(path string) (*XLMeta, error) {
	var m XLMeta
	if err := jsp.Load(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

const (
	InlineCodecRaw = "raw"
	InlineCodecLZ4 = "lz4"
)

// EncodeInline prepares an inline payload for xl.meta, per spec.md §4.4.3.
// It tries LZ4 (the teacher's EC.Compression knob, ec/manager.go, applied
// here to on-disk inline storage instead of inter-node transport) and keeps
// whichever form -- compressed or raw -- is smaller before base64-encoding.
func EncodeInline(payload []byte) (b64 string, codec string, err error) {
	compressed, cerr := lz4Compress(payload)
	if cerr == nil && len(compressed) < len(payload) {
		return base64.StdEncoding.EncodeToString(compressed), InlineCodecLZ4, nil
	}
	return base64.StdEncoding.EncodeToString(payload), InlineCodecRaw, nil
}

// DecodeInline reverses EncodeInline.
func DecodeInline(b64, codec string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, cmn.WrapError(cmn.KindIOError, err, "decode inline base64")
	}
	switch codec {
	case "", InlineCodecRaw:
		return raw, nil
	case InlineCodecLZ4:
		return lz4Decompress(raw)
	default:
		return nil, cmn.NewError(cmn.KindInvalidArgument, "unknown inline codec %q", codec)
	}
}

func lz4Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lz4Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, cmn.WrapError(cmn.KindIOError, err, "lz4 decompress inline data")
	}
	return out, nil
}
