// Package emu provides functional RV64I emulation.
package emu

// numCSRs is the size of the CSR bank: a 12-bit address space.
const numCSRs = 4096

// CSR addresses used by this core.
const (
	CSRMtvec  uint16 = 0x305
	CSRMepc   uint16 = 0x341
	CSRMcause uint16 = 0x342
)

// RegFile represents the RV64I hart state: 32 general-purpose
// registers, the program counter, and the CSR bank.
type RegFile struct {
	// X holds general-purpose registers x0-x31. X[0] is the
	// architectural zero register: ReadReg/WriteReg enforce that
	// reads of it always return 0 and writes to it are silently
	// discarded, so X[0] itself must never be observed directly.
	X [32]uint64

	// PC is the program counter: the address of the instruction
	// about to be fetched.
	PC uint64

	// CSR is the 4096-entry control/status register bank. Only
	// CSRMtvec, CSRMepc, and CSRMcause carry meaning to this core;
	// every other address is plain storage with no side effects.
	CSR [numCSRs]uint64
}

// ReadReg reads a register value. x0 always reads as 0.
func (r *RegFile) ReadReg(reg uint8) uint64 {
	if reg == 0 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to x0 are a no-op.
// This is the one place x0's fixed-zero invariant is enforced, so
// every caller - including the CSR instructions' read/write-suppress
// corner cases - gets it for free.
func (r *RegFile) WriteReg(reg uint8, value uint64) {
	if reg == 0 {
		return
	}
	r.X[reg] = value
}

// ReadCSR reads a CSR value. Every address is valid; there are no
// access-width or privilege checks in this core.
func (r *RegFile) ReadCSR(csr uint16) uint64 {
	return r.CSR[csr]
}

// WriteCSR stores a value in a CSR.
func (r *RegFile) WriteCSR(csr uint16, value uint64) {
	r.CSR[csr] = value
}
