package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rv64sim/insts"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex-word>",
		Short: "decode a single instruction word and print its mnemonic and fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decodeWord(args[0])
		},
	}
	return cmd
}

func decodeWord(text string) error {
	word, err := strconv.ParseUint(strings.TrimPrefix(text, "0x"), 16, 32)
	if err != nil {
		return fmt.Errorf("invalid hex word %q: %w", text, err)
	}

	decoder := insts.NewDecoder()
	inst, err := decoder.Decode(uint32(word))
	if err != nil {
		return fmt.Errorf("decode 0x%08x: %w", word, err)
	}

	fmt.Printf("word:  0x%08x\n", inst.Raw)
	fmt.Printf("op:    %s\n", inst.Op)
	fmt.Printf("rd:    x%d\n", inst.Rd)
	fmt.Printf("rs1:   x%d\n", inst.Rs1)
	fmt.Printf("rs2:   x%d\n", inst.Rs2)
	fmt.Printf("imm:   %d (0x%x)\n", inst.Imm, inst.Imm)
	fmt.Printf("shamt: %d\n", inst.Shamt)
	fmt.Printf("uimm:  %d\n", inst.Uimm)
	fmt.Printf("csr:   0x%03x\n", inst.Csr)

	return nil
}
