package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64sim/emu"
	"github.com/sarchlab/rv64sim/loader"
)

func newRunCmd() *cobra.Command {
	var stdoutConsole bool
	var maxSteps uint64

	cmd := &cobra.Command{
		Use:   "run <elf>",
		Short: "run a single RISC-V ELF64 binary to completion or a step bound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinary(args[0], stdoutConsole, maxSteps)
		},
	}
	cmd.Flags().BoolVar(&stdoutConsole, "stdout-console", true, "forward console MMIO writes to stdout")
	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "maximum instructions to execute (0 = unlimited)")

	return cmd
}

func runBinary(path string, stdoutConsole bool, maxSteps uint64) error {
	prog, err := loader.Load(path, 0)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	opts := []emu.EmulatorOption{
		emu.WithStackPointer(prog.InitialSP),
		emu.WithMaxInstructions(maxSteps),
	}
	if !stdoutConsole {
		opts = append(opts, emu.WithStdout(os.Stderr))
	}

	e := emu.NewEmulator(opts...)
	for _, seg := range prog.Segments {
		e.LoadSegment(seg.VirtAddr, seg.Data)
	}
	e.SetPC(prog.EntryPoint)

	result := e.Run(context.Background())

	fmt.Fprintf(os.Stderr, "\ninstructions executed: %d\n", e.InstructionCount())
	dumpRegs(e)

	if result.Err != nil {
		return result.Err
	}
	if result.Done {
		if result.Passed {
			fmt.Fprintln(os.Stderr, "test status: Passed")
		} else {
			fmt.Fprintf(os.Stderr, "test status: Failed at test#%d\n", result.TestNum)
		}
	}
	return nil
}

func dumpRegs(e *emu.Emulator) {
	rf := e.RegFile()
	fmt.Fprintf(os.Stderr, "pc  = 0x%016x\n", rf.PC)
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(os.Stderr, "x%-2d = 0x%016x  x%-2d = 0x%016x  x%-2d = 0x%016x  x%-2d = 0x%016x\n",
			i, rf.ReadReg(uint8(i)),
			i+1, rf.ReadReg(uint8(i+1)),
			i+2, rf.ReadReg(uint8(i+2)),
			i+3, rf.ReadReg(uint8(i+3)))
	}
}
