package tester

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/gizbox-lang/gizparse/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genTester(t *testing.T) *Tester {
	t.Helper()

	gf, err := spec.Load("../spec/testdata/arithmetic.toml")
	require.NoError(t, err)
	data, err := grammar.Generate(gf.Spec())
	require.NoError(t, err)
	ls, err := gf.CompileLexer()
	require.NoError(t, err)
	return &Tester{
		Data:  data,
		Lexer: ls,
	}
}

func TestTester_Run(t *testing.T) {
	tests := []struct {
		testSrc string
		error   bool
		diffs   int
	}{
		{
			testSrc: `
source = "1 + 2"
tree = """
E
├─ E
│  └─ T
│     └─ F
│        └─ num "1"
├─ +
└─ T
   └─ F
      └─ num "2"
"""
`,
		},
		{
			testSrc: `
source = "1 +"
reject = true
`,
		},
		{
			testSrc: `
source = "1 + 2"
reject = true
`,
			error: true,
		},
		{
			testSrc: `
source = "(1)"
tree = """
E
└─ T
   └─ F
      ├─ (
      ├─ E
      │  └─ T
      │     └─ F
      │        └─ num "2"
      └─ )
"""
`,
			error: true,
			diffs: 1,
		},
		{
			testSrc: `
source = "1"
tree = """
E
└─ T
"""
`,
			error: true,
			diffs: 2,
		},
		{
			testSrc: `
source = "1 ?"
tree = "E"
`,
			error: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.testSrc, func(t *testing.T) {
			c, err := ParseTestCase(strings.NewReader(tt.testSrc))
			require.NoError(t, err)

			tester := genTester(t)
			tester.Cases = []*TestCaseWithMetadata{
				{
					TestCase: c,
				},
			}
			rs := tester.Run()
			require.Len(t, rs, 1)
			if tt.error {
				assert.Error(t, rs[0].Error, "this test must fail, but it passed")
			} else {
				assert.NoError(t, rs[0].Error)
			}
			assert.Len(t, rs[0].Diffs, tt.diffs)
		})
	}
}

func TestParseTestCase_errors(t *testing.T) {
	tests := []string{
		`source = "1"`,
		`
source = "1"
reject = true
tree = "E"
`,
		`
source = "1"
tree = "E"
expected = "E"
`,
		`source = `,
	}
	for _, src := range tests {
		_, err := ParseTestCase(strings.NewReader(src))
		assert.Error(t, err, "source: %v", src)
	}
}

func TestDiffTree(t *testing.T) {
	assert.Empty(t, DiffTree("E\n└─ T\n", "\nE  \n└─ T"))

	diffs := DiffTree("E\n└─ T", "E\n└─ F\n   └─ x")
	require.Len(t, diffs, 2)
	assert.Equal(t, &TreeDiff{Line: 2, Expected: "└─ T", Actual: "└─ F"}, diffs[0])
	assert.Equal(t, &TreeDiff{Line: 3, Actual: "   └─ x"}, diffs[1])
	assert.Equal(t, `line 3: unexpected "   └─ x"`, diffs[1].String())
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"), []byte("source = \"1\"\nreject = true\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a test case"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.toml"), []byte("source = \"1\"\n"), 0644))

	cs := ListTestCases(dir)
	require.Len(t, cs, 2)
	assert.NoError(t, cs[0].Error)
	assert.True(t, cs[0].TestCase.Reject)
	assert.Error(t, cs[1].Error, "a test case without a tree is invalid")
	assert.Equal(t, filepath.Join(dir, "sub", "b.toml"), cs[1].FilePath)

	cs = ListTestCases(filepath.Join(dir, "missing"))
	require.Len(t, cs, 1)
	assert.Error(t, cs[0].Error)
}

func TestTester_Run_testdata(t *testing.T) {
	tester := genTester(t)
	tester.Cases = ListTestCases("../spec/testdata/arithmetic")
	require.Len(t, tester.Cases, 2)
	for _, r := range tester.Run() {
		assert.NoError(t, r.Error, "%v", r)
	}
}
