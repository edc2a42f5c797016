package main

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/gizbox-lang/gizparse/driver"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	cache *string
	steps *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar file path>",
		Short:   "Parse lines entered interactively",
		Example: `  gizparse repl expr.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.cache = addCacheFlag(cmd.Flags())
	replFlags.steps = cmd.Flags().Bool("steps", false, "print every shift and reduce step")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	p, ls, err := newParser(args[0], *replFlags.cache, *replFlags.steps)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("Quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		tree, err := parseSource(p, ls, strings.NewReader(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		var b strings.Builder
		driver.PrintTree(&b, tree)
		pterm.Println(strings.TrimRight(b.String(), "\n"))
	}
}
