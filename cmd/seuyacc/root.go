package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seuyacc [flags] <grammar file>",
	Short: "Generate an LR(1) parser in C from a yacc grammar",
	Long: `seuyacc reads a yacc grammar file, builds the canonical LR(1)
automaton and the ACTION/GOTO tables with precedence-directed
conflict resolution, and emits a table-driven parser in C.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runGenerate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	generateFlags.output = rootCmd.Flags().StringP("output", "o", "", "output basename (default: grammar file without extension)")
	generateFlags.definitions = rootCmd.Flags().BoolP("definitions", "d", false, "generate a header with token definitions (y.tab.h style)")
	generateFlags.plantUML = rootCmd.Flags().BoolP("plantuml", "p", false, "generate a PlantUML diagram of the state machine")
	generateFlags.markdown = rootCmd.Flags().BoolP("markdown", "m", false, "generate a Markdown rendering of the parsing tables")
	generateFlags.debug = rootCmd.Flags().Bool("debug", false, "enable debug logging")
	generateFlags.noColor = rootCmd.Flags().Bool("no-color", false, "disable colored log output")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
