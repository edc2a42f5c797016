package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gizbox-lang/gizparse/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	cache *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  gizparse test expr.toml test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.cache = addCacheFlag(cmd.Flags())
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	gf, data, err := loadParserData(args[0], *testFlags.cache)
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}
	ls, err := gf.CompileLexer()
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Data:  data,
		Lexer: ls,
		Cases: cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
