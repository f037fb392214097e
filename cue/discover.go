package cue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPatterns are the cue sheet names searched for, in order, when none
// is configured.
var DefaultPatterns = []string{"game.cue", "*.cue", "*.CUE"}

// Discover returns the path of the first file in baseDir matching one of
// patterns. Patterns are tried in order and within a pattern matches are
// taken in lexical order. ErrNoCueSheet is returned when nothing matches.
func Discover(baseDir string, patterns []string) (string, error) {
	dir := NormalizeBase(baseDir)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("cue: pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err == nil && info.Mode().IsRegular() {
				return m, nil
			}
		}
	}
	return "", ErrNoCueSheet
}

// Load parses the cue sheet name in baseDir, or the first discovered one
// if name is empty.
func Load(baseDir, name string, patterns []string) (path string, sheet *Sheet, err error) {
	if name == "" {
		path, err = Discover(baseDir, patterns)
		if err != nil {
			return "", nil, err
		}
	} else {
		path = filepath.Join(NormalizeBase(baseDir), name)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil, fmt.Errorf("%w: %s", ErrNoCueSheet, path)
	}
	if err != nil {
		return path, nil, fmt.Errorf("cue: open: %w", err)
	}
	defer f.Close() // read-only

	sheet, err = Parse(f, baseDir)
	if err != nil {
		return path, nil, err
	}
	if sheet.Image == "" {
		return path, nil, ErrNoImage
	}
	return path, sheet, nil
}
