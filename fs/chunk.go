package fs

import (
	"os"

	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/cmn/cos"
	"github.com/NVIDIA/buckets/hash"
)

// ComputeChecksum returns the BLAKE2b-256 digest of a shard's bytes, per
// spec.md §4.4.3. MD5 is reserved for S3 ETag compatibility and never used
// here.
func ComputeChecksum(data []byte) *cos.Cksum {
	sum := hash.Blake2b256(data)
	return cos.NewCksum(cos.ChecksumBlake2b, sum[:])
}

// WriteChunk atomically writes one shard's bytes to partPath, per the
// write -> fsync -> rename sequence of spec.md §4.4.4, and returns its
// checksum for inclusion in the object's xl.meta.
func WriteChunk(partPath string, data []byte) (*cos.Cksum, error) {
	tie := cmn.GenTie()
	if err := cos.WriteFileAtomic(partPath, data, tie); err != nil {
		return nil, cmn.WrapError(cmn.KindIOError, err, "write chunk %s", partPath)
	}
	return ComputeChecksum(data), nil
}

// ReadChunk reads a shard's raw bytes. A missing file is reported as
// (nil, nil) -- the caller (registry/pipeline reconstruction path) treats a
// missing shard as "absent", not as an I/O failure, per spec.md §4.6 step 6.
func ReadChunk(partPath string) ([]byte, error) {
	data, err := os.ReadFile(partPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, cmn.WrapError(cmn.KindIOError, err, "read chunk %s", partPath)
	}
	return data, nil
}

// VerifyChunk recomputes data's checksum and compares it, in constant time,
// against want. A mismatch means bit rot or a torn write slipped past the
// atomic-rename guarantee (e.g. a transplanted shard from another object).
func VerifyChunk(data []byte, want *cos.Cksum) error {
	got := ComputeChecksum(data)
	if !got.Equal(want) {
		return cmn.NewError(cmn.KindChecksumMismatch, "shard checksum mismatch: want %s got %s", want.HexDigest(), got.HexDigest())
	}
	return nil
}

// DeleteChunk removes a shard file. Deleting an already-absent shard is not
// an error: DeleteObject fans out to every disk regardless of quorum, so
// some targets legitimately never held a copy.
func DeleteChunk(partPath string) error {
	if err := cos.RemoveFile(partPath); err != nil {
		return cmn.WrapError(cmn.KindIOError, err, "delete chunk %s", partPath)
	}
	return nil
}

// Exists reports whether path names a regular file already on disk.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
