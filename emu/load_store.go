// Package emu provides functional RV64I emulation.
package emu

// LoadStoreUnit implements RV64I's width-parameterized loads and
// stores: Xd = Xn + sext(imm) forms the effective address for every
// one of them, so this unit only has to differ on access width and
// sign/zero extension.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  Device
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory device.
func NewLoadStoreUnit(regFile *RegFile, memory Device) *LoadStoreUnit {
	return &LoadStoreUnit{regFile: regFile, memory: memory}
}

func (lsu *LoadStoreUnit) addr(rs1 uint8, imm int32) uint64 {
	return lsu.regFile.ReadReg(rs1) + uint64(int64(imm))
}

// Lb loads a byte, sign-extended to 64 bits.
func (lsu *LoadStoreUnit) Lb(rd, rs1 uint8, imm int32) {
	v := int8(lsu.memory.Read(lsu.addr(rs1, imm), 8))
	lsu.regFile.WriteReg(rd, uint64(int64(v)))
}

// Lbu loads a byte, zero-extended to 64 bits.
func (lsu *LoadStoreUnit) Lbu(rd, rs1 uint8, imm int32) {
	lsu.regFile.WriteReg(rd, lsu.memory.Read(lsu.addr(rs1, imm), 8))
}

// Lh loads a halfword, sign-extended to 64 bits.
func (lsu *LoadStoreUnit) Lh(rd, rs1 uint8, imm int32) {
	v := int16(lsu.memory.Read(lsu.addr(rs1, imm), 16))
	lsu.regFile.WriteReg(rd, uint64(int64(v)))
}

// Lhu loads a halfword, zero-extended to 64 bits.
func (lsu *LoadStoreUnit) Lhu(rd, rs1 uint8, imm int32) {
	lsu.regFile.WriteReg(rd, lsu.memory.Read(lsu.addr(rs1, imm), 16))
}

// Lw loads a word, sign-extended to 64 bits.
func (lsu *LoadStoreUnit) Lw(rd, rs1 uint8, imm int32) {
	v := int32(lsu.memory.Read(lsu.addr(rs1, imm), 32))
	lsu.regFile.WriteReg(rd, uint64(int64(v)))
}

// Lwu loads a word, zero-extended to 64 bits.
func (lsu *LoadStoreUnit) Lwu(rd, rs1 uint8, imm int32) {
	lsu.regFile.WriteReg(rd, lsu.memory.Read(lsu.addr(rs1, imm), 32))
}

// Ld loads a doubleword.
func (lsu *LoadStoreUnit) Ld(rd, rs1 uint8, imm int32) {
	lsu.regFile.WriteReg(rd, lsu.memory.Read(lsu.addr(rs1, imm), 64))
}

// Sb stores the low 8 bits of Xs2.
func (lsu *LoadStoreUnit) Sb(rs1, rs2 uint8, imm int32) {
	lsu.memory.Write(lsu.addr(rs1, imm), lsu.regFile.ReadReg(rs2), 8)
}

// Sh stores the low 16 bits of Xs2.
func (lsu *LoadStoreUnit) Sh(rs1, rs2 uint8, imm int32) {
	lsu.memory.Write(lsu.addr(rs1, imm), lsu.regFile.ReadReg(rs2), 16)
}

// Sw stores the low 32 bits of Xs2.
func (lsu *LoadStoreUnit) Sw(rs1, rs2 uint8, imm int32) {
	lsu.memory.Write(lsu.addr(rs1, imm), lsu.regFile.ReadReg(rs2), 32)
}

// Sd stores all 64 bits of Xs2.
func (lsu *LoadStoreUnit) Sd(rs1, rs2 uint8, imm int32) {
	lsu.memory.Write(lsu.addr(rs1, imm), lsu.regFile.ReadReg(rs2), 64)
}
