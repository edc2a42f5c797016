package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gizbox-lang/gizparse/grammar"
	"github.com/natefinch/atomic"
)

// ReadFile reads parser data from the cache file at path.
func ReadFile(path string) (*grammar.ParserData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the cache file %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// WriteFile writes data to path. The file is replaced atomically, so a reader never sees partial data.
func WriteFile(path string, data *grammar.ParserData) error {
	var b bytes.Buffer
	err := Write(&b, data)
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, &b)
}

// fileMatches reports whether the cache file at path exists and was generated from spec.
func fileMatches(path string, spec *grammar.Spec) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	return Matches(f, spec)
}

// LoadOrGenerate returns the parser data of spec. When the cache file at path was generated from the same
// grammar input, the data are read from it; otherwise they are generated and the file is overwritten. The
// second return value reports whether the data came from the cache.
func LoadOrGenerate(path string, spec *grammar.Spec) (*grammar.ParserData, bool, error) {
	ok, err := fileMatches(path, spec)
	if err != nil {
		return nil, false, err
	}
	if ok {
		tracer().Infof("cache hit: %v", path)
		data, err := ReadFile(path)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}

	tracer().Infof("cache miss: %v", path)
	data, err := grammar.Generate(spec)
	if err != nil {
		return nil, false, err
	}
	err = WriteFile(path, data)
	if err != nil {
		return nil, false, fmt.Errorf("Cannot write the cache file %s: %w", path, err)
	}
	return data, false, nil
}
