package main

import (
	"fmt"

	"github.com/gizbox-lang/gizparse/cache"
	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/gizbox-lang/gizparse/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output  *string
	noCache *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <grammar file path>",
		Short:   "Compile a grammar into a cached parsing table",
		Example: `  gizparse compile expr.toml -o expr.lalr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "cache file path (default <grammar file>"+cacheFileExt+")")
	compileFlags.noCache = cmd.Flags().Bool("no-cache", false, "regenerate the table even when the cache file is up to date")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	grmPath := args[0]
	outPath := *compileFlags.output
	if outPath == "" {
		outPath = defaultCachePath(grmPath)
	}

	gf, err := spec.Load(grmPath)
	if err != nil {
		return err
	}
	if len(gf.Lexical) > 0 {
		_, err := gf.CompileLexer()
		if err != nil {
			return fmt.Errorf("Cannot compile the lexical entries of %s: %w", grmPath, err)
		}
	}

	var data *grammar.ParserData
	if *compileFlags.noCache {
		data, err = grammar.Generate(gf.Spec())
		if err != nil {
			return err
		}
		err = cache.WriteFile(outPath, data)
		if err != nil {
			return fmt.Errorf("Cannot write the cache file %s: %w", outPath, err)
		}
		pterm.Info.Println(fmt.Sprintf("wrote the table to %v", outPath))
	} else {
		var hit bool
		data, hit, err = cache.LoadOrGenerate(outPath, gf.Spec())
		if err != nil {
			return err
		}
		if hit {
			pterm.Info.Println(fmt.Sprintf("%v is up to date", outPath))
		} else {
			pterm.Info.Println(fmt.Sprintf("wrote the table to %v", outPath))
		}
	}

	pterm.Info.Println(fmt.Sprintf("%v states, %v productions", len(data.States), len(data.Grammar.Productions())))
	return nil
}
