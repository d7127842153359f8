// Package main provides the rv64sim command-line driver: a functional
// RV64I emulator and architectural-test-suite runner.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rv64sim",
		Short: "rv64sim is a functional RV64I emulator and test-suite runner",
	}

	rootCmd.AddCommand(newSuiteCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDecodeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
