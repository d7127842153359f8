// Package insts provides RV64I instruction definitions and decoding.
//
// This package implements decoding of RV64 base-integer machine code
// into a structured instruction representation. It supports the full
// RV64I opcode map:
//   - Upper immediate: LUI, AUIPC
//   - Control transfer: JAL, JALR, BEQ/BNE/BLT/BGE/BLTU/BGEU
//   - Loads/stores: LB/LH/LW/LBU/LHU/LWU/LD, SB/SH/SW/SD
//   - Register-immediate and register-register ALU ops, plus their
//     32-bit "W" counterparts
//   - FENCE and the SYSTEM opcode's ECALL/EBREAK/MRET/SRET and the
//     six CSR read-modify-write forms
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0xFFF28293) // addi x5, x5, -1
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
