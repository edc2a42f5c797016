package main

import (
	"os"

	verr "github.com/gizbox-lang/gizparse/error"
	"github.com/pterm/pterm"
)

// exitCodes maps error kinds to exit statuses. Other errors, such as usage and I/O errors, exit with 1.
var exitCodes = map[verr.Kind]int{
	verr.KindGrammar:        2,
	verr.KindConflict:       3,
	verr.KindCacheIntegrity: 4,
	verr.KindParse:          5,
}

func main() {
	err := Execute()
	if err != nil {
		pterm.Error.Println(err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := verr.KindOf(err); ok {
		if code, ok := exitCodes[kind]; ok {
			return code
		}
	}
	return 1
}
