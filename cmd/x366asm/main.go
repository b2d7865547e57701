// Command x366asm assembles X366 source into a "Go Cats!" binary
// container. It is adapted from the reference ARM emulator's flag-based main.go,
// restructured onto a cobra root command the way oisee/z80-optimizer
// structures its CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"x366/asm"
)

var rootCmd = &cobra.Command{
	Use:   "x366asm <input.asm> <output.bin>",
	Short: "Assemble X366 source into a binary container",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath, outPath := args[0], args[1]

		src, err := os.ReadFile(inPath) // #nosec G304 -- user-specified assembler input path
		if err != nil {
			return fmt.Errorf("reading %s: %w", inPath, err)
		}

		bin, err := asm.AssembleToBinary(string(src), inPath)
		if err != nil {
			return err
		}

		if err := os.WriteFile(outPath, bin, 0o644); err != nil { // #nosec G306 -- assembler output is not sensitive
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", inPath, outPath, len(bin))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
