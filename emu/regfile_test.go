package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	Describe("ReadReg/WriteReg", func() {
		It("should read back a written value", func() {
			regFile.WriteReg(5, 0xDEADBEEF)

			Expect(regFile.ReadReg(5)).To(Equal(uint64(0xDEADBEEF)))
		})

		It("should always read x0 as zero", func() {
			Expect(regFile.ReadReg(0)).To(Equal(uint64(0)))
		})

		It("should silently discard writes to x0", func() {
			regFile.WriteReg(0, 0x1234)

			Expect(regFile.ReadReg(0)).To(Equal(uint64(0)))
		})

		It("should keep registers independent", func() {
			regFile.WriteReg(1, 10)
			regFile.WriteReg(2, 20)

			Expect(regFile.ReadReg(1)).To(Equal(uint64(10)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(20)))
		})

		It("should support the full x1-x31 range", func() {
			for i := uint8(1); i <= 31; i++ {
				regFile.WriteReg(i, uint64(i)*100)
			}
			for i := uint8(1); i <= 31; i++ {
				Expect(regFile.ReadReg(i)).To(Equal(uint64(i) * 100))
			}
		})
	})

	Describe("ReadCSR/WriteCSR", func() {
		It("should read back a written CSR value", func() {
			regFile.WriteCSR(emu.CSRMtvec, 0x8000_0100)

			Expect(regFile.ReadCSR(emu.CSRMtvec)).To(Equal(uint64(0x8000_0100)))
		})

		It("should keep mtvec, mepc, and mcause independent", func() {
			regFile.WriteCSR(emu.CSRMtvec, 1)
			regFile.WriteCSR(emu.CSRMepc, 2)
			regFile.WriteCSR(emu.CSRMcause, 3)

			Expect(regFile.ReadCSR(emu.CSRMtvec)).To(Equal(uint64(1)))
			Expect(regFile.ReadCSR(emu.CSRMepc)).To(Equal(uint64(2)))
			Expect(regFile.ReadCSR(emu.CSRMcause)).To(Equal(uint64(3)))
		})

		It("should treat unnamed CSR addresses as plain storage", func() {
			regFile.WriteCSR(0xC00, 42)

			Expect(regFile.ReadCSR(0xC00)).To(Equal(uint64(42)))
		})

		It("should default every CSR to zero", func() {
			Expect(regFile.ReadCSR(0x7C0)).To(Equal(uint64(0)))
		})
	})
})
