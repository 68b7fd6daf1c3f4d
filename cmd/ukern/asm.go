package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/ukern/cpu"
	"github.com/ezrec/ukern/emulator"
)

func newAsmCmd() *cobra.Command {
	var origin uint32

	cmd := &cobra.Command{
		Use:   "asm <file.s>",
		Short: "Assemble a program and print its listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inf, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer inf.Close()

			asm := &cpu.Assembler{Verbose: flagVerbose, Origin: origin}
			for equ, value := range emulator.Defines() {
				asm.Predefine(equ, value)
			}

			prog, err := asm.Parse(inf)
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			for lineno, text := range prog.Listing() {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d %v\n", lineno, text)
			}

			return nil
		},
	}

	cmd.Flags().Uint32Var(&origin, "origin", emulator.EMULATOR_MEMORY_BASE, "Address to assemble at")

	return cmd
}

func newDefinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defines",
		Short: "List the predefined assembler equates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for equ, value := range emulator.Defines() {
				fmt.Fprintf(cmd.OutOrStdout(), ".equ %v %v\n", equ, value)
			}
		},
	}
}
