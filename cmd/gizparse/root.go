package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// traceKeys lists the tracers of the library packages.
var traceKeys = []string{
	"gizparse.grammar",
	"gizparse.cache",
	"gizparse.driver",
	"gizparse.spec",
}

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "gizparse",
	Short: "Generate LALR(1) parsing tables and parse text with them",
	Long: `gizparse provides the following features:
- Generates an LALR(1) parsing table from a grammar file and caches it.
- Parses a text stream according to the grammar and prints the syntax tree.
- Prints a parsing table in a readable format.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

func setUp(cmd *cobra.Command, args []string) error {
	initDisplay()
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func Execute() error {
	return rootCmd.Execute()
}
