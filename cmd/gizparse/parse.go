package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gizbox-lang/gizparse/driver"
	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	cache  *string
	steps  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream and print its syntax tree",
		Example: `  echo '1 + 2 * 3' | gizparse parse expr.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.cache = addCacheFlag(cmd.Flags())
	parseFlags.steps = cmd.Flags().Bool("steps", false, "print every shift and reduce step")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	src := io.Reader(os.Stdin)
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	p, ls, err := newParser(args[0], *parseFlags.cache, *parseFlags.steps)
	if err != nil {
		return err
	}
	tree, err := parseSource(p, ls, src)
	if err != nil {
		return err
	}
	driver.PrintTree(os.Stdout, tree)
	return nil
}

// newParser builds a parser that constructs a syntax tree, plus the lexer of the grammar file.
func newParser(grmPath, cachePath string, steps bool) (*driver.Parser, *driver.LexSpec, error) {
	gf, data, err := loadParserData(grmPath, cachePath)
	if err != nil {
		return nil, nil, err
	}
	ls, err := gf.CompileLexer()
	if err != nil {
		return nil, nil, err
	}

	set := driver.NewSemanticActionSet(data.Grammar)
	driver.NewTreeBuilder().Register(set)
	opts := []driver.ParserOption{
		driver.WithSemanticActions(set),
	}
	if steps {
		opts = append(opts, driver.WithTrace(printStep))
	}
	p, err := driver.NewParser(data, opts...)
	if err != nil {
		return nil, nil, err
	}
	return p, ls, nil
}

func parseSource(p *driver.Parser, ls *driver.LexSpec, src io.Reader) (*driver.Node, error) {
	ts, err := driver.NewTokenStream(ls, src)
	if err != nil {
		return nil, err
	}
	toks, err := ts.ReadAll()
	if err != nil {
		return nil, err
	}
	root, err := p.Parse(toks)
	if err != nil {
		return nil, err
	}
	return root.Node(), nil
}

func printStep(ev *driver.TraceEvent) {
	switch ev.Action.Type {
	case grammar.ActionTypeShift:
		fmt.Fprintf(os.Stderr, "%v: shift %v -> %v\n", ev.State, ev.Token, ev.Action.Num)
	case grammar.ActionTypeReduce:
		fmt.Fprintf(os.Stderr, "%v: reduce %v\n", ev.State, ev.Production.Expression())
	case grammar.ActionTypeAccept:
		fmt.Fprintf(os.Stderr, "%v: accept\n", ev.State)
	}
}
