package styles

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/lindgren/stanza/internal/apperr"
)

// tokenRe is the utility-class grammar: optional variant segments joined by
// `:` prefixing dash-joined base segments, e.g. `flex`, `bg-gray-100`,
// `p-1.5`, `w-1/2`, `hover:underline`, `md:grid-cols-2`.
var tokenRe = regexp.MustCompile(`^(?:[a-z][a-z0-9]*:)*[a-z][a-z0-9]*(?:-[a-z0-9.]+)*(?:/[0-9]+)?$`)

var (
	classAttrRe = regexp.MustCompile(`class\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	attrBlockRe = regexp.MustCompile(`\{([^{}]*)\}`)
)

// Scan walks root for files matching the glob patterns and returns the set
// of utility-class tokens they reference, sorted. Scanning each file is
// independent and the result is sorted, so file order never affects output.
func Scan(root string, patterns []string) ([]string, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, &apperr.ConfigError{Key: "content", Reason: fmt.Sprintf("bad glob %q: %v", p, err)}
		}
		globs = append(globs, g)
	}

	tokens := make(map[string]struct{})
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(globs, rel) {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("styles: read %s: %w", rel, err)
		}
		for _, t := range ExtractTokens(string(data)) {
			tokens[t] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("styles: scan: %w", err)
	}

	out := make([]string, 0, len(tokens))
	for t := range tokens {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func matchesAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// ExtractTokens pulls utility-class tokens out of one source text. Two
// contexts are recognized: HTML/template class attributes and Markdown
// attribute blocks (`{.token}`).
func ExtractTokens(src string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(candidate string) {
		if !tokenRe.MatchString(candidate) {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	for _, m := range classAttrRe.FindAllStringSubmatch(src, -1) {
		val := m[1]
		if val == "" {
			val = m[2]
		}
		for _, c := range strings.Fields(val) {
			add(c)
		}
	}

	for _, m := range attrBlockRe.FindAllStringSubmatch(src, -1) {
		for _, part := range strings.Fields(m[1]) {
			if cls, ok := strings.CutPrefix(part, "."); ok {
				add(cls)
			}
		}
	}

	return out
}
