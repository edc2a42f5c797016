package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gizbox-lang/gizparse/cache"
	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/gizbox-lang/gizparse/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

const cacheFileExt = ".lalr"

// addCacheFlag registers the --cache flag of the commands that read a grammar file.
func addCacheFlag(fs *pflag.FlagSet) *string {
	return fs.StringP("cache", "c", "", "cache file path (default no cache)")
}

// defaultCachePath returns the grammar file path with its extension replaced by the cache file extension.
func defaultCachePath(grmPath string) string {
	return strings.TrimSuffix(grmPath, filepath.Ext(grmPath)) + cacheFileExt
}

// loadParserData reads a grammar file and returns its parser data. When cachePath is empty the data are
// generated in memory; otherwise they come from the cache file, which is regenerated when it is stale.
func loadParserData(grmPath, cachePath string) (*spec.GrammarFile, *grammar.ParserData, error) {
	gf, err := spec.Load(grmPath)
	if err != nil {
		return nil, nil, err
	}

	if cachePath == "" {
		data, err := grammar.Generate(gf.Spec())
		if err != nil {
			return nil, nil, err
		}
		return gf, data, nil
	}

	data, hit, err := cache.LoadOrGenerate(cachePath, gf.Spec())
	if err != nil {
		return nil, nil, err
	}
	if hit {
		pterm.Info.Println(fmt.Sprintf("using the cached table %v", cachePath))
	} else {
		pterm.Info.Println(fmt.Sprintf("wrote the table to %v", cachePath))
	}
	return gf, data, nil
}
