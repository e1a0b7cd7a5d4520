// Package scan counts the files an analysis would cover, so an empty
// selection can be reported before the analyzer is started.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var defaultIgnoreDirs = map[string]struct{}{
	".git":         {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
}

type Options struct {
	CWD     string
	Paths   string
	Exclude []string
}

type ScanResult struct {
	Files  int
	Errors []ScanError
}

type ScanError struct {
	Code   string
	Path   string
	Detail string
}

// Count expands Paths (a directory, a file or a doublestar glob, relative to
// CWD) and counts regular files not matched by any Exclude pattern.
func Count(opts Options) ScanResult {
	var res ScanResult
	pattern := opts.Paths
	if strings.TrimSpace(pattern) == "" {
		pattern = "."
	}
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(opts.CWD, pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		res.Errors = append(res.Errors, ScanError{Code: "invalid_pattern", Path: opts.Paths, Detail: err.Error()})
		return res
	}
	seen := map[string]struct{}{}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			res.Errors = append(res.Errors, ScanError{Code: "stat_failed", Path: m, Detail: err.Error()})
			continue
		}
		if info.IsDir() {
			walkDir(m, opts, seen, &res)
			continue
		}
		if !isExcluded(m, opts) {
			seen[m] = struct{}{}
		}
	}
	res.Files = len(seen)
	return res
}

func walkDir(root string, opts Options, seen map[string]struct{}, res *ScanResult) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Errors = append(res.Errors, ScanError{Code: "walk_error", Path: path, Detail: err.Error()})
			return nil
		}
		if d.IsDir() {
			if _, ok := defaultIgnoreDirs[d.Name()]; ok && path != root {
				return fs.SkipDir
			}
			if path != root && isExcluded(path, opts) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if isExcluded(path, opts) {
			return nil
		}
		seen[path] = struct{}{}
		return nil
	})
}

func isExcluded(absPath string, opts Options) bool {
	candidates := []string{filepath.ToSlash(absPath)}
	if opts.CWD != "" {
		if rel, err := filepath.Rel(opts.CWD, absPath); err == nil && !strings.HasPrefix(rel, "..") {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}
	for _, p := range opts.Exclude {
		for _, c := range candidates {
			if ok, err := doublestar.Match(p, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}
