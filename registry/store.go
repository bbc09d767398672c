package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/NVIDIA/buckets/asyncio"
	"github.com/NVIDIA/buckets/cmn"
	"github.com/NVIDIA/buckets/ec"
	"github.com/NVIDIA/buckets/fs"
)

// Store is the self-hosted persistence layer of spec.md §4.5.1: every
// LocationRecord is itself written through the same chunk I/O (C4) and
// erasure engine (C3) as a user object, into the reserved bucket. It is
// deliberately independent of pipeline.Service -- the pipeline calls into
// the registry, so the registry persisting itself through the pipeline
// would be circular. Shards are striped across every configured mountpath
// rather than a placement-ring subset, since the registry bucket is a
// single well-known location, not something that needs to scale out.
type Store struct {
	mp  *fs.Mountpaths
	ec  *ec.Context
	cfg *cmn.Config
}

func NewStore(mp *fs.Mountpaths, ecctx *ec.Context, cfg *cmn.Config) *Store {
	return &Store{mp: mp, ec: ecctx, cfg: cfg}
}

// Put erasure-encodes payload (or inlines it, for small records), writes
// shard i to mountpath i modulo the mountpath count, and writes xl.meta to
// every mountpath, per spec.md §4.4.
func (s *Store) Put(bucket, object string, payload []byte) error {
	if int64(len(payload)) < s.cfg.InlineThreshold {
		return s.putInline(bucket, object, payload)
	}
	return s.putErasureCoded(bucket, object, payload)
}

func (s *Store) putInline(bucket, object string, payload []byte) error {
	b64, codec, err := fs.EncodeInline(payload)
	if err != nil {
		return err
	}
	meta := &fs.XLMeta{
		Size:        int64(len(payload)),
		VersionID:   LatestVersion,
		Inline:      b64,
		InlineCodec: codec,
	}
	for _, p := range s.mp.All() {
		if err := fs.SaveMeta(p.Meta(bucket, object), meta); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) putErasureCoded(bucket, object string, payload []byte) error {
	n := s.mp.Count()
	k, m := cmn.ChooseErasureConfig(n)
	if k != s.ec.K || m != s.ec.M {
		ctx, err := ec.NewContext(k, m)
		if err != nil {
			return err
		}
		s.ec = ctx
	}
	chunkSize := ec.CalcChunkSize(int64(len(payload)), s.ec.K)
	shards, err := s.ec.Encode(payload, chunkSize)
	if err != nil {
		return err
	}
	descs := make([]fs.ShardDescriptor, len(shards))
	paths := s.mp.All()
	for i, shard := range shards {
		cksum, werr := fs.WriteChunk(paths[i%len(paths)].Part(bucket, object, i+1), shard)
		if werr != nil {
			return werr
		}
		descs[i] = fs.ShardDescriptor{Index: i + 1, Algo: cksum.Algo, Digest: cksum.HexDigest()}
	}
	meta := &fs.XLMeta{
		Erasure:   fs.ErasureMeta{K: s.ec.K, M: s.ec.M},
		ChunkSize: chunkSize,
		Size:      int64(len(payload)),
		VersionID: LatestVersion,
		Shards:    descs,
	}
	for _, p := range paths {
		if err := fs.SaveMeta(p.Meta(bucket, object), meta); err != nil {
			return err
		}
	}
	return nil
}

// Get reverses Put: loads xl.meta from the first mountpath that has it,
// then either decodes the inline payload or reconstructs from shards.
func (s *Store) Get(bucket, object string) ([]byte, error) {
	var meta *fs.XLMeta
	var metaPath string
	for _, p := range s.mp.All() {
		mp := p.Meta(bucket, object)
		if fs.Exists(mp) {
			m, err := fs.LoadMeta(mp)
			if err != nil {
				return nil, err
			}
			meta, metaPath = m, mp
			break
		}
	}
	if meta == nil {
		return nil, cmn.NewError(cmn.KindNotFound, "registry object %s/%s not found", bucket, object)
	}
	_ = metaPath

	if meta.Inline != "" || meta.Size == 0 && meta.Erasure.K == 0 {
		return fs.DecodeInline(meta.Inline, meta.InlineCodec)
	}

	paths := s.mp.All()
	shards := make([][]byte, meta.Erasure.K+meta.Erasure.M)
	for i := range shards {
		data, err := fs.ReadChunk(paths[i%len(paths)].Part(bucket, object, i+1))
		if err != nil {
			return nil, err
		}
		shards[i] = data
	}
	ctx, err := ec.NewContext(meta.Erasure.K, meta.Erasure.M)
	if err != nil {
		return nil, err
	}
	return ctx.Decode(shards, meta.ChunkSize, meta.Size)
}

// Delete best-effort removes every shard and the metadata file, tolerating
// partial or total absence, per spec.md §4.6 DELETE.
func (s *Store) Delete(bucket, object string) error {
	for _, p := range s.mp.All() {
		_ = fs.DeleteChunk(p.Meta(bucket, object))
		for i := 1; i <= cmn.MaxK+cmn.MaxM; i++ {
			partPath := p.Part(bucket, object, i)
			if !fs.Exists(partPath) {
				continue
			}
			_ = fs.DeleteChunk(partPath)
		}
	}
	return nil
}

// Walk visits every location record durably stored in the registry bucket
// by scanning object directories with asyncio.WalkObjectDirs and decoding
// whatever xl.meta it finds, the way NewService rebuilds the cuckoo
// filter/buntdb index at startup, per spec.md §4.5.1's self-hosting
// contract: a restart must not make durable records invisible to
// maybeExists/list until they happen to be re-recorded.
//
// xl.meta is replicated to every mountpath (Put writes it via s.mp.All()),
// so walking just the first mountpath root is enough to discover every
// object's relative directory; shards for an erasure-coded record are then
// read back positionally from the other mountpaths at that same relative
// path, without needing to already know the record's bucket/object/version
// -- those come out of the decoded payload itself.
func (s *Store) Walk(fn func(*LocationRecord) error) error {
	roots := s.mp.All()
	if len(roots) == 0 {
		return nil
	}
	root0 := roots[0].Root()
	if _, err := os.Stat(root0); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return cmn.WrapError(cmn.KindIOError, err, "stat registry root %s", root0)
	}

	return asyncio.WalkObjectDirs(root0, func(dir string) error {
		relDir := strings.TrimPrefix(dir, root0)
		meta, err := fs.LoadMeta(dir + "/" + fs.MetaFileName)
		if err != nil {
			return nil // tolerate a torn/unreadable record during bootstrap
		}

		var payload []byte
		if meta.Inline != "" || (meta.Size == 0 && meta.Erasure.K == 0) {
			payload, err = fs.DecodeInline(meta.Inline, meta.InlineCodec)
		} else {
			n := meta.Erasure.K + meta.Erasure.M
			shards := make([][]byte, n)
			for i := 0; i < n; i++ {
				shardRoot := roots[i%len(roots)].Root()
				data, rerr := fs.ReadChunk(shardRoot + relDir + fmt.Sprintf("/part.%d", i+1))
				if rerr != nil || data == nil {
					return nil
				}
				shards[i] = data
			}
			var ctx *ec.Context
			ctx, err = ec.NewContext(meta.Erasure.K, meta.Erasure.M)
			if err == nil {
				payload, err = ctx.Decode(shards, meta.ChunkSize, meta.Size)
			}
		}
		if err != nil {
			return nil
		}

		var loc LocationRecord
		if err := json.Unmarshal(payload, &loc); err != nil {
			return nil
		}
		return fn(&loc)
	})
}
