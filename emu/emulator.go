// Package emu provides functional RV64I emulation.
package emu

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv64sim/insts"
)

// Emulator executes RV64I instructions functionally: one hart, one
// flat memory, no timing model.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
	trap       *TrapHandler

	stdout io.Writer
	stderr io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer; it also becomes the
// emulator's console-MMIO sink.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithStderr sets a custom stderr writer, used only for diagnostics.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithStackPointer sets the initial value of x2, the stack-pointer
// register by software convention (RV64I has no architecturally
// distinguished stack-pointer register the way ARM64 has SP).
func WithStackPointer(sp uint64) EmulatorOption {
	return func(e *Emulator) { e.regFile.X[2] = sp }
}

// WithMemorySize overrides the default mapped RAM size.
func WithMemorySize(size uint64) EmulatorOption {
	return func(e *Emulator) { e.memory = NewMemorySize(size) }
}

// WithMaxInstructions sets the maximum number of instructions to
// execute before Step starts failing. A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// NewEmulator creates a new RV64I emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.memory.Console = e.stdout
	e.wireUnits()

	return e
}

func (e *Emulator) wireUnits() {
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
	e.trap = NewTrapHandler(e.regFile)
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadSegment copies program bytes into memory at addr. Callers
// loading an ELF binary call this once per PT_LOAD segment.
func (e *Emulator) LoadSegment(addr uint64, data []byte) {
	e.memory.LoadProgram(addr, data)
}

// SetPC sets the program counter, typically to an ELF's entry point.
func (e *Emulator) SetPC(pc uint64) {
	e.regFile.PC = pc
}

// Reset returns the emulator to its initial state: zeroed registers
// and CSRs, fresh memory, zeroed instruction count.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemorySize(uint64(len(e.memory.data)))
	e.memory.Console = e.stdout
	e.instructionCount = 0
	e.wireUnits()
}

// TestStatus reads the architectural test harness's result word and
// reports whether the guest has signaled completion.
func (e *Emulator) TestStatus() (done bool, passed bool, testNum uint64) {
	status := e.memory.Read(TestStatusAddr, 64)
	done = status&1 == 1
	testNum = status >> 1
	passed = done && testNum == 0
	return done, passed, testNum
}

// RunResult reports how Run terminated.
type RunResult struct {
	// Done is true if the guest signaled test completion via the
	// test-status word.
	Done bool
	// Passed is true if Done and the test number was zero.
	Passed  bool
	TestNum uint64
	// Err is set on a fatal step failure or context cancellation.
	Err error
}

// Run steps the emulator until the guest signals test completion via
// the test-status word, a step fails, or ctx is canceled. Accepting a
// context here - rather than making the hart itself concurrent - is
// the one concession to Go idiom in an otherwise synchronous,
// single-threaded interpreter: it lets a caller bound or cancel a run
// without the step loop gaining any notion of concurrency. The
// rv64sim commands pass context.Background(), so their runs are not
// bounded this way.
func (e *Emulator) Run(ctx context.Context) RunResult {
	for {
		if err := ctx.Err(); err != nil {
			return RunResult{Err: err}
		}

		if err := e.Step(); err != nil {
			return RunResult{Err: err}
		}

		if done, passed, testNum := e.TestStatus(); done {
			return RunResult{Done: true, Passed: passed, TestNum: testNum}
		}
	}
}

// Step executes exactly one instruction:
//  1. snapshot pcCur
//  2. fetch the 32-bit word at pcCur
//  3. speculatively advance pc to pcCur+4
//  4. decode the word
//  5. execute, which overwrites pc for control-transfer instructions
//     and otherwise leaves it at pcCur+4
//
// Step returns an error on a decode failure, an out-of-range memory
// access, or an unimplemented instruction variant (EBREAK, SRET). The
// failing instruction's own register and memory writes are not made,
// but once the fetch has succeeded pc already holds pcCur+4.
func (e *Emulator) Step() (err error) {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return fmt.Errorf("instruction limit of %d reached", e.maxInstructions)
	}

	pcCur := e.regFile.PC

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fault at pc=0x%x: %v", pcCur, r)
		}
	}()

	word := uint32(e.memory.Read(pcCur, 32))
	e.regFile.PC = pcCur + 4

	inst, decErr := e.decoder.Decode(word)
	if decErr != nil {
		return fmt.Errorf("decode at pc=0x%x: %w", pcCur, decErr)
	}

	if execErr := e.execute(pcCur, inst); execErr != nil {
		return execErr
	}

	e.instructionCount++
	return nil
}

// execute dispatches a decoded instruction to its execution unit.
// pcCur is the instruction's own address - AUIPC, JAL, and the
// branches all compute their targets relative to it, not the
// speculative pcCur+4 already written to pc by Step.
func (e *Emulator) execute(pcCur uint64, inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpLUI:
		e.regFile.WriteReg(inst.Rd, uint64(int64(inst.Imm)))
	case insts.OpAUIPC:
		e.regFile.WriteReg(inst.Rd, pcCur+uint64(int64(inst.Imm)))

	case insts.OpJAL:
		e.regFile.WriteReg(inst.Rd, pcCur+4)
		e.regFile.PC = pcCur + uint64(int64(inst.Imm))
	case insts.OpJALR:
		target := (e.regFile.ReadReg(inst.Rs1) + uint64(int64(inst.Imm))) &^ 1
		e.regFile.WriteReg(inst.Rd, pcCur+4)
		e.regFile.PC = target

	case insts.OpBEQ:
		if e.branchUnit.Beq(inst.Rs1, inst.Rs2) {
			e.regFile.PC = pcCur + uint64(int64(inst.Imm))
		}
	case insts.OpBNE:
		if e.branchUnit.Bne(inst.Rs1, inst.Rs2) {
			e.regFile.PC = pcCur + uint64(int64(inst.Imm))
		}
	case insts.OpBLT:
		if e.branchUnit.Blt(inst.Rs1, inst.Rs2) {
			e.regFile.PC = pcCur + uint64(int64(inst.Imm))
		}
	case insts.OpBGE:
		if e.branchUnit.Bge(inst.Rs1, inst.Rs2) {
			e.regFile.PC = pcCur + uint64(int64(inst.Imm))
		}
	case insts.OpBLTU:
		if e.branchUnit.Bltu(inst.Rs1, inst.Rs2) {
			e.regFile.PC = pcCur + uint64(int64(inst.Imm))
		}
	case insts.OpBGEU:
		if e.branchUnit.Bgeu(inst.Rs1, inst.Rs2) {
			e.regFile.PC = pcCur + uint64(int64(inst.Imm))
		}

	case insts.OpLB:
		e.lsu.Lb(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLBU:
		e.lsu.Lbu(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLH:
		e.lsu.Lh(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLHU:
		e.lsu.Lhu(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLW:
		e.lsu.Lw(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLWU:
		e.lsu.Lwu(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLD:
		e.lsu.Ld(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSB:
		e.lsu.Sb(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSH:
		e.lsu.Sh(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSW:
		e.lsu.Sw(inst.Rs1, inst.Rs2, inst.Imm)
	case insts.OpSD:
		e.lsu.Sd(inst.Rs1, inst.Rs2, inst.Imm)

	case insts.OpADDI:
		e.alu.AddImm(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLTI:
		e.alu.SltImm(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLTIU:
		e.alu.SltuImm(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpXORI:
		e.alu.XorImm(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpORI:
		e.alu.OrImm(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpANDI:
		e.alu.AndImm(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLLI:
		e.alu.SllImm(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpSRLI:
		e.alu.SrlImm(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpSRAI:
		e.alu.SraImm(inst.Rd, inst.Rs1, inst.Shamt)

	case insts.OpADD:
		e.alu.Add(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSUB:
		e.alu.Sub(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLL:
		e.alu.Sll(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLT:
		e.alu.Slt(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLTU:
		e.alu.Sltu(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpXOR:
		e.alu.Xor(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRL:
		e.alu.Srl(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRA:
		e.alu.Sra(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpOR:
		e.alu.Or(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpAND:
		e.alu.And(inst.Rd, inst.Rs1, inst.Rs2)

	case insts.OpADDIW:
		e.alu.AddImmW(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLLIW:
		e.alu.SllImmW(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpSRLIW:
		e.alu.SrlImmW(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpSRAIW:
		e.alu.SraImmW(inst.Rd, inst.Rs1, inst.Shamt)
	case insts.OpADDW:
		e.alu.AddW(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSUBW:
		e.alu.SubW(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLLW:
		e.alu.SllW(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRLW:
		e.alu.SrlW(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRAW:
		e.alu.SraW(inst.Rd, inst.Rs1, inst.Rs2)

	case insts.OpFENCE:
		// no-op

	case insts.OpECALL:
		e.trap.ECall(pcCur)
	case insts.OpMRET:
		e.trap.MRet()
	case insts.OpEBREAK:
		return fmt.Errorf("EBREAK at pc=0x%x: unimplemented", pcCur)
	case insts.OpSRET:
		return fmt.Errorf("SRET at pc=0x%x: unimplemented", pcCur)

	case insts.OpCSRRW:
		e.trap.Csrrw(inst.Rd, inst.Rs1, inst.Csr)
	case insts.OpCSRRS:
		e.trap.Csrrs(inst.Rd, inst.Rs1, inst.Csr)
	case insts.OpCSRRC:
		e.trap.Csrrc(inst.Rd, inst.Rs1, inst.Csr)
	case insts.OpCSRRWI:
		e.trap.Csrrwi(inst.Rd, inst.Uimm, inst.Csr)
	case insts.OpCSRRSI:
		e.trap.Csrrsi(inst.Rd, inst.Uimm, inst.Csr)
	case insts.OpCSRRCI:
		e.trap.Csrrci(inst.Rd, inst.Uimm, inst.Csr)

	default:
		return fmt.Errorf("unknown instruction at pc=0x%x: %s", pcCur, inst.Op)
	}

	return nil
}
