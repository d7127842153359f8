package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64sim/emu"
)

var _ = Describe("BranchUnit", func() {
	var (
		regFile    *emu.RegFile
		branchUnit *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		branchUnit = emu.NewBranchUnit(regFile)
	})

	Describe("Beq", func() {
		It("reports true when the operands are equal", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 5)

			Expect(branchUnit.Beq(1, 2)).To(BeTrue())
		})

		It("reports false when the operands differ", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 6)

			Expect(branchUnit.Beq(1, 2)).To(BeFalse())
		})

		It("treats x0 as always zero", func() {
			regFile.WriteReg(1, 0)

			Expect(branchUnit.Beq(0, 1)).To(BeTrue())
		})
	})

	Describe("Bne", func() {
		It("reports true when the operands differ", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 6)

			Expect(branchUnit.Bne(1, 2)).To(BeTrue())
		})

		It("reports false when the operands are equal", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 5)

			Expect(branchUnit.Bne(1, 2)).To(BeFalse())
		})
	})

	Describe("Blt (signed)", func() {
		It("reports true for a negative value compared to a positive one", func() {
			regFile.WriteReg(1, uint64(int64(-1)))
			regFile.WriteReg(2, 1)

			Expect(branchUnit.Blt(1, 2)).To(BeTrue())
		})

		It("reports false when Xn >= Xm", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 5)

			Expect(branchUnit.Blt(1, 2)).To(BeFalse())
		})
	})

	Describe("Bge (signed)", func() {
		It("reports true when equal", func() {
			regFile.WriteReg(1, 5)
			regFile.WriteReg(2, 5)

			Expect(branchUnit.Bge(1, 2)).To(BeTrue())
		})

		It("reports false for a negative value compared to a positive one", func() {
			regFile.WriteReg(1, uint64(int64(-1)))
			regFile.WriteReg(2, 1)

			Expect(branchUnit.Bge(1, 2)).To(BeFalse())
		})
	})

	Describe("Bltu (unsigned)", func() {
		It("treats an all-ones bit pattern as a huge unsigned value", func() {
			regFile.WriteReg(1, uint64(int64(-1)))
			regFile.WriteReg(2, 1)

			Expect(branchUnit.Bltu(1, 2)).To(BeFalse())
		})

		It("reports true for a smaller unsigned operand", func() {
			regFile.WriteReg(1, 1)
			regFile.WriteReg(2, 2)

			Expect(branchUnit.Bltu(1, 2)).To(BeTrue())
		})
	})

	Describe("Bgeu (unsigned)", func() {
		It("treats an all-ones bit pattern as greater than or equal to any value", func() {
			regFile.WriteReg(1, uint64(int64(-1)))
			regFile.WriteReg(2, 1)

			Expect(branchUnit.Bgeu(1, 2)).To(BeTrue())
		})

		It("reports false for a smaller unsigned operand", func() {
			regFile.WriteReg(1, 1)
			regFile.WriteReg(2, 2)

			Expect(branchUnit.Bgeu(1, 2)).To(BeFalse())
		})
	})
})
