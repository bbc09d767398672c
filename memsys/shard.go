package memsys

// Shard is a buffer checked out of an MMSA pool for the lifetime of one
// async write task, per the "manual ownership of shard buffers" design
// note: exactly one stage holds Buf at a time, and ownership moves with an
// explicit Transfer call rather than being inferred from control flow or a
// refcount.
type Shard struct {
	mm    *MMSA
	Buf   []byte
	owner string
}

// NewShard checks out a size-byte buffer from m, initially held by owner.
func (m *MMSA) NewShard(owner string, size int) *Shard {
	return &Shard{mm: m, Buf: m.Alloc(size), owner: owner}
}

// Owner reports which stage currently holds Buf.
func (s *Shard) Owner() string { return s.owner }

// Transfer moves ownership to newOwner. The previous owner must not touch
// Buf after calling this.
func (s *Shard) Transfer(newOwner string) { s.owner = newOwner }

// Release returns Buf to its pool. The caller must be the current owner and
// must not touch Buf afterward.
func (s *Shard) Release() {
	if s == nil || s.mm == nil || s.Buf == nil {
		return
	}
	s.mm.Free(s.Buf)
	s.Buf = nil
}
