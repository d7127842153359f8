// Package emu provides functional RV64I emulation.
package emu

// BranchUnit implements RV64I's six two-register branch comparisons.
// Unlike a condition-code architecture, RV64I branches never consult a
// flags register: each one directly compares Xn against Xm and yields
// a single bool, which the caller uses to decide whether to apply the
// branch offset to PC.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Beq reports whether Xn == Xm.
func (b *BranchUnit) Beq(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) == b.regFile.ReadReg(rs2)
}

// Bne reports whether Xn != Xm.
func (b *BranchUnit) Bne(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) != b.regFile.ReadReg(rs2)
}

// Blt reports whether Xn < Xm as signed 64-bit values.
func (b *BranchUnit) Blt(rs1, rs2 uint8) bool {
	return int64(b.regFile.ReadReg(rs1)) < int64(b.regFile.ReadReg(rs2))
}

// Bge reports whether Xn >= Xm as signed 64-bit values.
func (b *BranchUnit) Bge(rs1, rs2 uint8) bool {
	return int64(b.regFile.ReadReg(rs1)) >= int64(b.regFile.ReadReg(rs2))
}

// Bltu reports whether Xn < Xm as unsigned 64-bit values.
func (b *BranchUnit) Bltu(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) < b.regFile.ReadReg(rs2)
}

// Bgeu reports whether Xn >= Xm as unsigned 64-bit values.
func (b *BranchUnit) Bgeu(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) >= b.regFile.ReadReg(rs2)
}
