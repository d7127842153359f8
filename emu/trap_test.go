package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
)

var _ = Describe("TrapHandler", func() {
	var (
		regFile *emu.RegFile
		trap    *emu.TrapHandler
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		trap = emu.NewTrapHandler(regFile)
	})

	Describe("ECall", func() {
		It("saves the ECALL's own address to mepc", func() {
			trap.ECall(0x8000_0040)

			Expect(regFile.ReadCSR(emu.CSRMepc)).To(Equal(uint64(0x8000_0040)))
		})

		It("records cause 11", func() {
			trap.ECall(0x8000_0040)

			Expect(regFile.ReadCSR(emu.CSRMcause)).To(Equal(uint64(11)))
		})

		It("transfers control to mtvec", func() {
			regFile.WriteCSR(emu.CSRMtvec, 0x8000_1000)

			trap.ECall(0x8000_0040)

			Expect(regFile.PC).To(Equal(uint64(0x8000_1000)))
		})
	})

	Describe("MRet", func() {
		It("restores PC from mepc", func() {
			regFile.WriteCSR(emu.CSRMepc, 0x8000_0048)

			trap.MRet()

			Expect(regFile.PC).To(Equal(uint64(0x8000_0048)))
		})

		It("also writes mcause to 11", func() {
			trap.MRet()

			Expect(regFile.ReadCSR(emu.CSRMcause)).To(Equal(uint64(11)))
		})
	})

	Describe("Csrrw", func() {
		It("unconditionally swaps the register into the CSR", func() {
			regFile.WriteCSR(0x7C0, 0xAA)
			regFile.WriteReg(1, 0xBB)

			trap.Csrrw(2, 1, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0xBB)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xAA)))
		})

		It("writes even when rs1 is x0", func() {
			regFile.WriteCSR(0x7C0, 0xAA)

			trap.Csrrw(2, 0, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0)))
		})
	})

	Describe("Csrrs", func() {
		It("sets bits named by the register", func() {
			regFile.WriteCSR(0x7C0, 0x0F)
			regFile.WriteReg(1, 0xF0)

			trap.Csrrs(2, 1, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0xFF)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0x0F)))
		})

		It("suppresses the write when rs1 is x0", func() {
			regFile.WriteCSR(0x7C0, 0x0F)

			trap.Csrrs(2, 0, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0x0F)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0x0F)))
		})
	})

	Describe("Csrrc", func() {
		It("clears bits named by the register", func() {
			regFile.WriteCSR(0x7C0, 0xFF)
			regFile.WriteReg(1, 0x0F)

			trap.Csrrc(2, 1, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0xF0)))
		})

		It("suppresses the write when rs1 is x0", func() {
			regFile.WriteCSR(0x7C0, 0xFF)

			trap.Csrrc(2, 0, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0xFF)))
		})
	})

	Describe("Csrrwi", func() {
		It("unconditionally writes the zero-extended immediate", func() {
			regFile.WriteCSR(0x7C0, 0xAA)

			trap.Csrrwi(2, 0x1F, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0x1F)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xAA)))
		})

		It("writes even when uimm is zero", func() {
			regFile.WriteCSR(0x7C0, 0xAA)

			trap.Csrrwi(2, 0, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0)))
		})
	})

	Describe("Csrrsi", func() {
		It("sets bits named by the immediate", func() {
			regFile.WriteCSR(0x7C0, 0x0F)

			trap.Csrrsi(2, 0x10, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0x1F)))
		})

		It("suppresses the write when uimm is zero", func() {
			regFile.WriteCSR(0x7C0, 0x0F)

			trap.Csrrsi(2, 0, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0x0F)))
		})
	})

	Describe("Csrrci", func() {
		It("clears bits named by the immediate", func() {
			regFile.WriteCSR(0x7C0, 0xFF)

			trap.Csrrci(2, 0x0F, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0xF0)))
		})

		It("suppresses the write when uimm is zero", func() {
			regFile.WriteCSR(0x7C0, 0xFF)

			trap.Csrrci(2, 0, 0x7C0)

			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0xFF)))
		})
	})
})
