package tester

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gizbox-lang/gizparse/driver"
	"github.com/gizbox-lang/gizparse/grammar"
)

const testCaseExt = ".toml"

// TestCase is the content of a test case file. Tree is the syntax tree of Source in the form PrintTree
// writes. A Reject case expects Source to fail to parse and has no tree.
//
//	description = "addition"
//	source = "1 + 2"
//	tree = """
//	E
//	├─ E
//	...
//	"""
type TestCase struct {
	Description string `toml:"description"`
	Source      string `toml:"source"`
	Tree        string `toml:"tree"`
	Reject      bool   `toml:"reject"`
}

// ParseTestCase reads a test case.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	c := &TestCase{}
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key: %v", undecoded[0])
	}
	if c.Reject && c.Tree != "" {
		return nil, errors.New("a rejected source cannot have a tree")
	}
	if !c.Reject && strings.TrimSpace(c.Tree) == "" {
		return nil, errors.New("a test case needs a tree unless it expects the source to be rejected")
	}
	return c, nil
}

// TreeDiff is a line where the printed tree differs from the expected one. Line is 1-based.
type TreeDiff struct {
	Line     int
	Expected string
	Actual   string
}

func (d *TreeDiff) String() string {
	switch {
	case d.Expected == "":
		return fmt.Sprintf("line %v: unexpected %q", d.Line, d.Actual)
	case d.Actual == "":
		return fmt.Sprintf("line %v: missing %q", d.Line, d.Expected)
	}
	return fmt.Sprintf("line %v: expected %q, actual %q", d.Line, d.Expected, d.Actual)
}

// DiffTree compares two printed trees line by line. Trailing blank lines and trailing spaces do not count.
func DiffTree(expected, actual string) []*TreeDiff {
	eLines := treeLines(expected)
	aLines := treeLines(actual)

	var diffs []*TreeDiff
	for i := 0; i < len(eLines) || i < len(aLines); i++ {
		var e, a string
		if i < len(eLines) {
			e = eLines[i]
		}
		if i < len(aLines) {
			a = aLines[i]
		}
		if e != a {
			diffs = append(diffs, &TreeDiff{
				Line:     i + 1,
				Expected: e,
				Actual:   a,
			})
		}
	}
	return diffs
}

func treeLines(tree string) []string {
	lines := strings.Split(strings.Trim(tree, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.String())
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the test case at testPath, or every test case file under it when it is a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() && filepath.Ext(e.Name()) != testCaseExt {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

type Tester struct {
	Data  *grammar.ParserData
	Lexer *driver.LexSpec
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, t.runTest(c))
	}
	return rs
}

func (t *Tester) runTest(c *TestCaseWithMetadata) *TestResult {
	tree, err := t.parse(c.TestCase.Source)
	if c.TestCase.Reject {
		if err == nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        errors.New("the source was accepted but must be rejected"),
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	var b strings.Builder
	driver.PrintTree(&b, tree)
	diffs := DiffTree(c.TestCase.Tree, b.String())
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func (t *Tester) parse(src string) (*driver.Node, error) {
	toks, err := driver.NewTokenStream(t.Lexer, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	ts, err := toks.ReadAll()
	if err != nil {
		return nil, err
	}

	set := driver.NewSemanticActionSet(t.Data.Grammar)
	driver.NewTreeBuilder().Register(set)
	p, err := driver.NewParser(t.Data, driver.WithSemanticActions(set))
	if err != nil {
		return nil, err
	}
	root, err := p.Parse(ts)
	if err != nil {
		return nil, err
	}
	return root.Node(), nil
}
