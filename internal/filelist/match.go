package filelist

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Matcher filters file paths.
type Matcher interface {
	Match(path string) bool
}

// Regex matches when the expression is found anywhere in the path, e.g.
// `^.*\.(nfi|ts)` for firmware images and recordings.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles expr.
func NewRegex(expr string) (*Regex, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}
	return &Regex{re: re}, nil
}

// Match implements Matcher.
func (r *Regex) Match(path string) bool {
	return r.re.MatchString(path)
}

// Glob matches doublestar patterns. Patterns without a separator are matched
// against the base name, others against the whole path.
type Glob struct {
	patterns []string
}

// NewGlob validates the patterns.
func NewGlob(patterns ...string) (*Glob, error) {
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob %q", p)
		}
		out = append(out, p)
	}
	return &Glob{patterns: out}, nil
}

// Match implements Matcher. An empty Glob matches everything.
func (g *Glob) Match(path string) bool {
	if len(g.patterns) == 0 {
		return true
	}
	for _, p := range g.patterns {
		target := path
		if !strings.Contains(p, "/") {
			target = filepath.Base(path)
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

// IgnoreFile is the per-tree ignore list read from the top directory.
const IgnoreFile = ".browseignore"

// loadIgnore compiles gitignore-style lines plus the ignore file in root, if
// any. It returns nil when there is nothing to ignore.
func loadIgnore(root string, extra []string) *ignore.GitIgnore {
	lines := append([]string(nil), extra...)
	if root != "" {
		if b, err := os.ReadFile(filepath.Join(root, IgnoreFile)); err == nil {
			lines = append(lines, strings.Split(string(b), "\n")...)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
