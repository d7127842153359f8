// Package main provides the entry point for rv64sim.
// rv64sim is a functional RV64I emulator.
//
// For the full CLI, use: go run ./cmd/rv64sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv64sim - RV64I functional emulator")
	fmt.Println("")
	fmt.Println("Usage: rv64sim [command] [flags]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  suite    run the embedded rv64ui-p-* architectural test suite")
	fmt.Println("  run      run a single RISC-V ELF64 binary")
	fmt.Println("  decode   decode a single instruction word")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv64sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv64sim' instead.")
	}
}
