package memsys_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/buckets/memsys"
)

var _ = Describe("MMSA", func() {
	It("rounds an allocation up to the next size class", func() {
		mm := memsys.NewMMSA()
		buf := mm.Alloc(10)
		Expect(len(buf)).To(Equal(10))
		Expect(cap(buf) >= 10).To(BeTrue())
	})

	It("reuses freed buffers of the same class", func() {
		mm := memsys.NewMMSA()
		buf := mm.Alloc(4096)
		mm.Free(buf)
		buf2 := mm.Alloc(4096)
		Expect(cap(buf2)).To(Equal(cap(buf)))
	})

	It("allocates oversized requests directly without pooling", func() {
		mm := memsys.NewMMSA()
		buf := mm.Alloc(64 * 1024 * 1024)
		Expect(len(buf)).To(Equal(64 * 1024 * 1024))
		stats := mm.Stats()
		Expect(stats.Oversized).To(Equal(int64(1)))
	})

	It("tracks alloc/free counters", func() {
		mm := memsys.NewMMSA()
		b1 := mm.Alloc(1024)
		b2 := mm.Alloc(2048)
		mm.Free(b1)
		mm.Free(b2)
		stats := mm.Stats()
		Expect(stats.Allocs).To(Equal(int64(2)))
		Expect(stats.Frees).To(Equal(int64(2)))
	})

	It("transfers shard ownership and frees on release", func() {
		mm := memsys.NewMMSA()
		sh := mm.NewShard("encoder", 4096)
		Expect(sh.Owner()).To(Equal("encoder"))
		sh.Transfer("writer")
		Expect(sh.Owner()).To(Equal("writer"))
		sh.Release()
		Expect(sh.Buf).To(BeNil())
		Expect(mm.Stats().Frees).To(Equal(int64(1)))
	})
})
