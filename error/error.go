package error

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind classifies every failure the generator, the cache and the parser runtime can report.
type Kind string

const (
	KindGrammar        = Kind("grammar")
	KindConflict       = Kind("conflict")
	KindCacheIntegrity = Kind("cache integrity")
	KindParse          = Kind("parse")
)

func (k Kind) String() string {
	return string(k)
}

// Kinded is implemented by every error type of this module.
type Kinded interface {
	error
	Kind() Kind
}

// KindOf returns the kind of the first Kinded error in err's chain.
func KindOf(err error) (Kind, bool) {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}

// SpecError is an error found in a grammar file. When FilePath and Row are set, Error prints the offending line too.
type SpecError struct {
	Cause      error
	FilePath   string
	SourceName string
	Row        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

func (e *SpecError) Kind() Kind {
	if k, ok := KindOf(e.Cause); ok {
		return k
	}
	return KindGrammar
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return strings.TrimSpace(s.Text())
		}
		i++
	}

	return ""
}
