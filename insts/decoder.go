// Package insts provides RV64I instruction definitions and decoding.
package insts

import "fmt"

// Op represents an RV64I opcode.
type Op uint8

// RV64I opcodes.
const (
	OpUnknown Op = iota
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpLWU
	OpLD
	OpSB
	OpSH
	OpSW
	OpSD
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW
	OpFENCE
	OpECALL
	OpEBREAK
	OpMRET
	OpSRET
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI
)

var opNames = map[Op]string{
	OpUnknown: "unknown",
	OpLUI:     "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu", OpLWU: "lwu", OpLD: "ld",
	OpSB: "sb", OpSH: "sh", OpSW: "sw", OpSD: "sd",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori", OpORI: "ori",
	OpANDI: "andi", OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpADDIW: "addiw", OpSLLIW: "slliw", OpSRLIW: "srliw", OpSRAIW: "sraiw",
	OpADDW: "addw", OpSUBW: "subw", OpSLLW: "sllw", OpSRLW: "srlw", OpSRAW: "sraw",
	OpFENCE: "fence", OpECALL: "ecall", OpEBREAK: "ebreak", OpMRET: "mret", OpSRET: "sret",
	OpCSRRW: "csrrw", OpCSRRS: "csrrs", OpCSRRC: "csrrc",
	OpCSRRWI: "csrrwi", OpCSRRSI: "csrrsi", OpCSRRCI: "csrrci",
}

// String returns the RV64I mnemonic for the opcode.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Instruction represents a decoded RV64I instruction. Every field is
// populated exclusively by the decoder; the executor only ever reads
// already-extracted, already-sign-extended values from it.
type Instruction struct {
	Op  Op
	Raw uint32 // the original 32-bit word, kept for diagnostics

	Rd, Rs1, Rs2 uint8 // 5-bit register indices

	// Imm holds the sign-extended immediate for I/S/B/U/J-type
	// instructions, already widened to a signed 32-bit value per the
	// encoding format's own sign-extension rule.
	Imm int32

	// Shamt is the shift amount: 6 bits for 64-bit shift-immediate
	// forms (SLLI/SRLI/SRAI), 5 bits for their W-form counterparts.
	Shamt uint8

	// Uimm is the 5-bit zero-extended operand for the CSR-immediate
	// instruction forms (CSRRWI/CSRRSI/CSRRCI).
	Uimm uint8

	// Csr is the 12-bit CSR address for all six CSR instructions.
	Csr uint16
}

// ErrorKind distinguishes the two decode failure modes.
type ErrorKind uint8

// Decode error kinds.
const (
	ErrUnknownOpcode ErrorKind = iota
	ErrUnknownInstruction
)

// DecodeError reports why a 32-bit word failed to decode.
type DecodeError struct {
	Kind   ErrorKind
	Opcode uint32 // the low-7-bit major opcode
	Raw    uint32 // the full word that failed to decode
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrUnknownOpcode:
		return fmt.Sprintf("unknown opcode 0x%02x (word 0x%08x)", e.Opcode, e.Raw)
	default:
		return fmt.Sprintf("unknown instruction for opcode 0x%02x (word 0x%08x)", e.Opcode, e.Raw)
	}
}

// Major 7-bit opcodes.
const (
	opcodeLUI      = 0b0110111
	opcodeAUIPC    = 0b0010111
	opcodeJAL      = 0b1101111
	opcodeJALR     = 0b1100111
	opcodeBRANCH   = 0b1100011
	opcodeLOAD     = 0b0000011
	opcodeSTORE    = 0b0100011
	opcodeOPIMM    = 0b0010011
	opcodeOPIMM32  = 0b0011011
	opcodeOP       = 0b0110011
	opcodeOP32     = 0b0111011
	opcodeMISCMEM  = 0b0001111
	opcodeSYSTEM   = 0b1110011
)

// Decoder decodes RV64I machine code into Instruction values.
type Decoder struct{}

// NewDecoder creates a new RV64I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode is a total function from a 32-bit word to either a decoded
// Instruction or a DecodeError naming the opcode/word that failed to
// match the RV64I encoding table.
func (d *Decoder) Decode(word uint32) (*Instruction, error) {
	opcode := word & 0x7F

	switch opcode {
	case opcodeLUI:
		return d.decodeU(word, OpLUI), nil
	case opcodeAUIPC:
		return d.decodeU(word, OpAUIPC), nil
	case opcodeJAL:
		return d.decodeJ(word), nil
	case opcodeJALR:
		return d.decodeJALR(word)
	case opcodeBRANCH:
		return d.decodeBranch(word)
	case opcodeLOAD:
		return d.decodeLoad(word)
	case opcodeSTORE:
		return d.decodeStore(word)
	case opcodeOPIMM:
		return d.decodeOpImm(word)
	case opcodeOPIMM32:
		return d.decodeOpImm32(word)
	case opcodeOP:
		return d.decodeOp(word)
	case opcodeOP32:
		return d.decodeOp32(word)
	case opcodeMISCMEM:
		return d.decodeMiscMem(word)
	case opcodeSYSTEM:
		return d.decodeSystem(word)
	default:
		return nil, &DecodeError{Kind: ErrUnknownOpcode, Opcode: opcode, Raw: word}
	}
}

func signExtend(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

func rFields(word uint32) (rd, funct3, rs1, rs2, funct7 uint32) {
	rd = (word >> 7) & 0x1F
	funct3 = (word >> 12) & 0x7
	rs1 = (word >> 15) & 0x1F
	rs2 = (word >> 20) & 0x1F
	funct7 = (word >> 25) & 0x7F
	return
}

// decodeU decodes U-type instructions (LUI, AUIPC).
// imm = word & 0xFFFFF000, kept as signed 32-bit.
func (d *Decoder) decodeU(word uint32, op Op) *Instruction {
	rd := uint8((word >> 7) & 0x1F)
	imm := int32(word & 0xFFFFF000)
	return &Instruction{Op: op, Raw: word, Rd: rd, Imm: imm}
}

// decodeJ decodes the J-type JAL instruction.
// imm = sext_21(inst[31] ∥ inst[19:12] ∥ inst[20] ∥ inst[30:21] ∥ 0)
func (d *Decoder) decodeJ(word uint32) *Instruction {
	rd := uint8((word >> 7) & 0x1F)

	bit20 := (word >> 31) & 0x1
	bits10_1 := (word >> 21) & 0x3FF
	bit11 := (word >> 20) & 0x1
	bits19_12 := (word >> 12) & 0xFF

	raw := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	imm := signExtend(raw, 21)

	return &Instruction{Op: OpJAL, Raw: word, Rd: rd, Imm: imm}
}

// decodeJALR decodes the I-type JALR instruction.
func (d *Decoder) decodeJALR(word uint32) (*Instruction, error) {
	rd, funct3, rs1, _, _ := rFields(word)
	if funct3 != 0 {
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeJALR, Raw: word}
	}
	imm := signExtend(word>>20, 12)
	return &Instruction{Op: OpJALR, Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Imm: imm}, nil
}

// decodeBranch decodes B-type conditional branches.
// imm = sext_13(inst[31] ∥ inst[7] ∥ inst[30:25] ∥ inst[11:8] ∥ 0)
func (d *Decoder) decodeBranch(word uint32) (*Instruction, error) {
	_, funct3, rs1, rs2, _ := rFields(word)

	var op Op
	switch funct3 {
	case 0b000:
		op = OpBEQ
	case 0b001:
		op = OpBNE
	case 0b100:
		op = OpBLT
	case 0b101:
		op = OpBGE
	case 0b110:
		op = OpBLTU
	case 0b111:
		op = OpBGEU
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeBRANCH, Raw: word}
	}

	bit12 := (word >> 31) & 0x1
	bit11 := (word >> 7) & 0x1
	bits10_5 := (word >> 25) & 0x3F
	bits4_1 := (word >> 8) & 0xF

	raw := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	imm := signExtend(raw, 13)

	return &Instruction{Op: op, Raw: word, Rs1: uint8(rs1), Rs2: uint8(rs2), Imm: imm}, nil
}

// decodeLoad decodes I-type load instructions.
func (d *Decoder) decodeLoad(word uint32) (*Instruction, error) {
	rd, funct3, rs1, _, _ := rFields(word)

	var op Op
	switch funct3 {
	case 0b000:
		op = OpLB
	case 0b001:
		op = OpLH
	case 0b010:
		op = OpLW
	case 0b011:
		op = OpLD
	case 0b100:
		op = OpLBU
	case 0b101:
		op = OpLHU
	case 0b110:
		op = OpLWU
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeLOAD, Raw: word}
	}

	imm := signExtend(word>>20, 12)
	return &Instruction{Op: op, Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Imm: imm}, nil
}

// decodeStore decodes S-type store instructions.
// imm = sext_12(inst[31:25] ∥ inst[11:7])
func (d *Decoder) decodeStore(word uint32) (*Instruction, error) {
	_, funct3, rs1, rs2, _ := rFields(word)

	var op Op
	switch funct3 {
	case 0b000:
		op = OpSB
	case 0b001:
		op = OpSH
	case 0b010:
		op = OpSW
	case 0b011:
		op = OpSD
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeSTORE, Raw: word}
	}

	hi := (word >> 25) & 0x7F
	lo := (word >> 7) & 0x1F
	raw := (hi << 5) | lo
	imm := signExtend(raw, 12)

	return &Instruction{Op: op, Raw: word, Rs1: uint8(rs1), Rs2: uint8(rs2), Imm: imm}, nil
}

// decodeOpImm decodes OP-IMM (64-bit register-immediate ALU ops).
func (d *Decoder) decodeOpImm(word uint32) (*Instruction, error) {
	rd, funct3, rs1, _, _ := rFields(word)
	imm := signExtend(word>>20, 12)

	inst := &Instruction{Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Imm: imm}

	switch funct3 {
	case 0b000:
		inst.Op = OpADDI
	case 0b010:
		inst.Op = OpSLTI
	case 0b011:
		inst.Op = OpSLTIU
	case 0b100:
		inst.Op = OpXORI
	case 0b110:
		inst.Op = OpORI
	case 0b111:
		inst.Op = OpANDI
	case 0b001:
		if (word>>26)&0x3F != 0 {
			return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOPIMM, Raw: word}
		}
		inst.Op = OpSLLI
		inst.Shamt = uint8(word>>20) & 0x3F
	case 0b101:
		shiftMode := (word >> 26) & 0x3F
		inst.Shamt = uint8(word>>20) & 0x3F
		switch shiftMode {
		case 0b000000:
			inst.Op = OpSRLI
		case 0b010000:
			inst.Op = OpSRAI
		default:
			return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOPIMM, Raw: word}
		}
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOPIMM, Raw: word}
	}

	return inst, nil
}

// decodeOpImm32 decodes OP-IMM-32 (W-form register-immediate ALU ops).
func (d *Decoder) decodeOpImm32(word uint32) (*Instruction, error) {
	rd, funct3, rs1, _, funct7 := rFields(word)
	imm := signExtend(word>>20, 12)

	inst := &Instruction{Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Imm: imm}

	switch funct3 {
	case 0b000:
		inst.Op = OpADDIW
	case 0b001:
		if funct7 != 0b0000000 {
			return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOPIMM32, Raw: word}
		}
		inst.Op = OpSLLIW
		inst.Shamt = uint8(word>>20) & 0x1F
	case 0b101:
		inst.Shamt = uint8(word>>20) & 0x1F
		switch funct7 {
		case 0b0000000:
			inst.Op = OpSRLIW
		case 0b0100000:
			inst.Op = OpSRAIW
		default:
			return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOPIMM32, Raw: word}
		}
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOPIMM32, Raw: word}
	}

	return inst, nil
}

// decodeOp decodes OP (64-bit register-register ALU ops).
func (d *Decoder) decodeOp(word uint32) (*Instruction, error) {
	rd, funct3, rs1, rs2, funct7 := rFields(word)
	inst := &Instruction{Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Rs2: uint8(rs2)}

	switch {
	case funct3 == 0b000 && funct7 == 0b0000000:
		inst.Op = OpADD
	case funct3 == 0b000 && funct7 == 0b0100000:
		inst.Op = OpSUB
	case funct3 == 0b001 && funct7 == 0b0000000:
		inst.Op = OpSLL
	case funct3 == 0b010 && funct7 == 0b0000000:
		inst.Op = OpSLT
	case funct3 == 0b011 && funct7 == 0b0000000:
		inst.Op = OpSLTU
	case funct3 == 0b100 && funct7 == 0b0000000:
		inst.Op = OpXOR
	case funct3 == 0b101 && funct7 == 0b0000000:
		inst.Op = OpSRL
	case funct3 == 0b101 && funct7 == 0b0100000:
		inst.Op = OpSRA
	case funct3 == 0b110 && funct7 == 0b0000000:
		inst.Op = OpOR
	case funct3 == 0b111 && funct7 == 0b0000000:
		inst.Op = OpAND
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOP, Raw: word}
	}

	return inst, nil
}

// decodeOp32 decodes OP-32 (W-form register-register ALU ops).
func (d *Decoder) decodeOp32(word uint32) (*Instruction, error) {
	rd, funct3, rs1, rs2, funct7 := rFields(word)
	inst := &Instruction{Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Rs2: uint8(rs2)}

	switch {
	case funct3 == 0b000 && funct7 == 0b0000000:
		inst.Op = OpADDW
	case funct3 == 0b000 && funct7 == 0b0100000:
		inst.Op = OpSUBW
	case funct3 == 0b001 && funct7 == 0b0000000:
		inst.Op = OpSLLW
	case funct3 == 0b101 && funct7 == 0b0000000:
		inst.Op = OpSRLW
	case funct3 == 0b101 && funct7 == 0b0100000:
		inst.Op = OpSRAW
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeOP32, Raw: word}
	}

	return inst, nil
}

// decodeMiscMem decodes the MISC-MEM opcode. Only FENCE is modeled;
// its fields are ignored and it is treated as a no-op tag.
func (d *Decoder) decodeMiscMem(word uint32) (*Instruction, error) {
	_, funct3, _, _, _ := rFields(word)
	if funct3 != 0b000 {
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeMISCMEM, Raw: word}
	}
	return &Instruction{Op: OpFENCE, Raw: word}, nil
}

// decodeSystem decodes the SYSTEM opcode: ECALL/EBREAK/MRET/SRET and
// the six CSR read-modify-write forms.
func (d *Decoder) decodeSystem(word uint32) (*Instruction, error) {
	rd, funct3, rs1, rs2, funct7 := rFields(word)

	if funct3 == 0b000 {
		switch {
		case rs2 == 0 && funct7 == 0:
			return &Instruction{Op: OpECALL, Raw: word}, nil
		case rs2 == 1 && funct7 == 0:
			return &Instruction{Op: OpEBREAK, Raw: word}, nil
		case rs2 == 2 && funct7 == 8:
			return &Instruction{Op: OpSRET, Raw: word}, nil
		case rs2 == 2 && funct7 == 24:
			return &Instruction{Op: OpMRET, Raw: word}, nil
		default:
			return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeSYSTEM, Raw: word}
		}
	}

	csr := uint16(word >> 20)
	inst := &Instruction{Raw: word, Rd: uint8(rd), Rs1: uint8(rs1), Csr: csr}

	switch funct3 {
	case 0b001:
		inst.Op = OpCSRRW
	case 0b010:
		inst.Op = OpCSRRS
	case 0b011:
		inst.Op = OpCSRRC
	case 0b101:
		inst.Op = OpCSRRWI
		inst.Uimm = uint8(rs1)
	case 0b110:
		inst.Op = OpCSRRSI
		inst.Uimm = uint8(rs1)
	case 0b111:
		inst.Op = OpCSRRCI
		inst.Uimm = uint8(rs1)
	default:
		return nil, &DecodeError{Kind: ErrUnknownInstruction, Opcode: opcodeSYSTEM, Raw: word}
	}

	return inst, nil
}
