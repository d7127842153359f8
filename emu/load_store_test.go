package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		lsu     *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemorySize(4096)
		lsu = emu.NewLoadStoreUnit(regFile, memory)
	})

	Describe("byte loads", func() {
		It("Lb sign-extends a negative byte", func() {
			memory.Write8(emu.MemoryBase, 0xFF)
			regFile.WriteReg(1, emu.MemoryBase)

			lsu.Lb(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFFFF_FFFF_FFFF_FFFF)))
		})

		It("Lbu zero-extends", func() {
			memory.Write8(emu.MemoryBase, 0xFF)
			regFile.WriteReg(1, emu.MemoryBase)

			lsu.Lbu(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFF)))
		})
	})

	Describe("halfword loads", func() {
		It("Lh sign-extends a negative halfword", func() {
			memory.Write16(emu.MemoryBase, 0x8000)
			regFile.WriteReg(1, emu.MemoryBase)

			lsu.Lh(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFFFF_FFFF_FFFF_8000)))
		})

		It("Lhu zero-extends", func() {
			memory.Write16(emu.MemoryBase, 0x8000)
			regFile.WriteReg(1, emu.MemoryBase)

			lsu.Lhu(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint64(0x8000)))
		})
	})

	Describe("word loads", func() {
		It("Lw sign-extends a negative word", func() {
			memory.Write32(emu.MemoryBase, 0x8000_0000)
			regFile.WriteReg(1, emu.MemoryBase)

			lsu.Lw(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFFFF_FFFF_8000_0000)))
		})

		It("Lwu zero-extends", func() {
			memory.Write32(emu.MemoryBase, 0x8000_0000)
			regFile.WriteReg(1, emu.MemoryBase)

			lsu.Lwu(2, 1, 0)

			Expect(regFile.ReadReg(2)).To(Equal(uint64(0x8000_0000)))
		})
	})

	Describe("doubleword load/store", func() {
		It("Ld and Sd round-trip a full 64-bit value", func() {
			regFile.WriteReg(1, emu.MemoryBase)
			regFile.WriteReg(2, 0x0123_4567_89AB_CDEF)

			lsu.Sd(1, 2, 0)
			lsu.Ld(3, 1, 0)

			Expect(regFile.ReadReg(3)).To(Equal(uint64(0x0123_4567_89AB_CDEF)))
		})
	})

	Describe("effective address computation", func() {
		It("adds a sign-extended immediate offset to the base register", func() {
			regFile.WriteReg(1, emu.MemoryBase+0x100)
			regFile.WriteReg(2, 7)

			lsu.Sb(1, 2, -0x10)
			lsu.Lbu(3, 1, -0x10)

			Expect(regFile.ReadReg(3)).To(Equal(uint64(7)))
		})
	})

	Describe("stores truncate to the store width", func() {
		It("Sb stores only the low 8 bits", func() {
			regFile.WriteReg(1, emu.MemoryBase)
			regFile.WriteReg(2, 0x1122_3344_5566_77FF)

			lsu.Sb(1, 2, 0)

			Expect(memory.Read8(emu.MemoryBase)).To(Equal(uint8(0xFF)))
		})

		It("Sw stores only the low 32 bits", func() {
			regFile.WriteReg(1, emu.MemoryBase)
			regFile.WriteReg(2, 0x1122_3344_AABB_CCDD)

			lsu.Sw(1, 2, 0)

			Expect(memory.Read32(emu.MemoryBase)).To(Equal(uint32(0xAABB_CCDD)))
		})
	})
})
