package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/unflat/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "unflat",
	Short: "Structured control-flow reconstruction for block-level programs",
	Long: `unflat reconstructs structured control flow from class documents
holding basic-block programs. Branches and loop-back edges become
labeled blocks, while loops, breaks and continues, with no unstructured
jumps left in the output.

Features:
  • Loop and forward-jump scope recovery over reducible graphs
  • Native method bodies via registered generators
  • text, json, yaml and dot output`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewDecompileCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewVersionCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewInitCommand().CreateCobraCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
