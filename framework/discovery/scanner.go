// Package discovery finds and loads files containing recognizable component
// markers so their registration side effects run.
//
// The scanner expands glob patterns relative to a base directory, excludes
// build artifacts and test files, and pre-filters candidates by a textual
// marker match before invoking their load hooks. The pre-filter is a
// conservative heuristic: a component whose declaration does not literally
// contain one of the marker patterns (for instance because the registration
// call is built up indirectly) is silently skipped. That is a documented
// accuracy limitation of text matching, not something the scanner tries to
// outsmart.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ── Results ──────────────────────────────────────────────────────────────────

// Failure records one file whose load hook failed.
type Failure struct {
	File string
	Err  error
}

// Result is the outcome of one Discover call.
type Result struct {
	ImportedFiles []string
	Failures      []Failure
}

// ImportError aggregates every per-file failure when discovery runs in strict
// mode. Each failed file and its cause is named.
type ImportError struct {
	Failures []Failure
}

func (e *ImportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "discovery: %d file(s) failed to load:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  %s: %v", f.File, f.Err)
	}
	return b.String()
}

// ── Options ──────────────────────────────────────────────────────────────────

// Options control a Discover run.
type Options struct {
	// Strict aggregates all failures into a single ImportError instead of
	// completing partially.
	Strict bool

	// OnImportError is invoked per failed file in non-strict mode.
	OnImportError func(file string, err error)

	// Exclude adds glob patterns (relative, slash-separated) on top of the
	// defaults.
	Exclude []string
}

// defaultExcludes skips test files and the usual build/vendor trees.
var defaultExcludes = []string{
	"**/*_test.go",
	"vendor/**",
	"testdata/**",
	"**/vendor/**",
	"**/testdata/**",
}

// componentMarkers is the textual pre-filter: a file is only loaded when its
// raw text matches one of these.
var componentMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*//\s*nest:(provider|controller|module)\b`),
	regexp.MustCompile(`\bRegister(Provider|Controller|CustomProvider)\s*\(`),
}

// ── Discover ─────────────────────────────────────────────────────────────────

// Discover expands patterns relative to baseDir, loads every marker-matching
// file through its registered module hook, and reports what was imported. A
// file either fully loads (registering whatever it declares) or lands in
// Failures; in strict mode any failure turns into one aggregate ImportError.
func Discover(patterns []string, baseDir string, opts Options) (Result, error) {
	var result Result

	files, err := expand(patterns, baseDir, opts.Exclude)
	if err != nil {
		return result, err
	}

	for _, rel := range files {
		raw, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(rel)))
		if err != nil {
			result.Failures = append(result.Failures, Failure{File: rel, Err: err})
			if !opts.Strict && opts.OnImportError != nil {
				opts.OnImportError(rel, err)
			}
			continue
		}
		if !hasMarker(raw) {
			continue
		}

		load, ok := moduleFor(rel)
		if !ok {
			// Marker matched but no hook registered — the heuristic found
			// text it cannot load. Skipped, per the package contract.
			continue
		}
		if err := load(); err != nil {
			result.Failures = append(result.Failures, Failure{File: rel, Err: err})
			if !opts.Strict && opts.OnImportError != nil {
				opts.OnImportError(rel, err)
			}
			continue
		}
		result.ImportedFiles = append(result.ImportedFiles, rel)
	}

	if opts.Strict && len(result.Failures) > 0 {
		return result, &ImportError{Failures: result.Failures}
	}
	return result, nil
}

func hasMarker(raw []byte) bool {
	for _, marker := range componentMarkers {
		if marker.Match(raw) {
			return true
		}
	}
	return false
}

// ── Glob expansion ───────────────────────────────────────────────────────────

// expand walks baseDir once and matches every regular file against the
// patterns, minus the exclusions. Paths are returned slash-separated,
// relative to baseDir, sorted for deterministic load order.
func expand(patterns []string, baseDir string, extraExcludes []string) ([]string, error) {
	excludes := append(append([]string{}, defaultExcludes...), extraExcludes...)

	seen := make(map[string]struct{})
	err := filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, ex := range excludes {
			if matchGlob(ex, rel) {
				return nil
			}
		}
		for _, p := range patterns {
			if matchGlob(p, rel) {
				seen[rel] = struct{}{}
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: scanning %s: %w", baseDir, err)
	}

	out := make([]string, 0, len(seen))
	for rel := range seen {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

// matchGlob matches a slash-separated relative path against a pattern where
// "**" crosses directory boundaries and "*" stays within one segment.
func matchGlob(pattern, rel string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pat, segs []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0
	}
	if pat[0] == "**" {
		// "**" matches zero or more leading segments.
		for skip := 0; skip <= len(segs); skip++ {
			if matchSegments(pat[1:], segs[skip:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	ok, err := filepath.Match(pat[0], segs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], segs[1:])
}
