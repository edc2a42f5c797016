package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	cache  *string
	states *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print the parsing table of a grammar in a readable format",
		Example: `  gizparse show expr.toml --states`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.cache = addCacheFlag(cmd.Flags())
	showFlags.states = cmd.Flags().Bool("states", false, "print the items of every state too")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	_, data, err := loadParserData(args[0], *showFlags.cache)
	if err != nil {
		return err
	}
	writeReport(os.Stdout, data, *showFlags.states)
	return nil
}

func writeReport(w io.Writer, data *grammar.ParserData, states bool) {
	fmt.Fprintf(w, "# Productions\n\n")
	for _, prod := range data.Grammar.Productions() {
		fmt.Fprintf(w, "%4v %v\n", prod.Num+1, prod.Expression())
	}

	if states {
		fmt.Fprintf(w, "\n# States\n")
		for _, s := range data.States {
			fmt.Fprintf(w, "\n## State %v (%v)\n\n%v\n", s.Index, s.Name, s.Set.Expression())
		}
	}

	fmt.Fprintf(w, "\n# Table\n\n%v\n", data.Table.String())
}
