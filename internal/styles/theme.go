// Package styles implements the style extractor: it scans configured source
// globs for utility-class tokens and resolves the theme configuration into
// the rule set a stylesheet backend turns into CSS.
package styles

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lindgren/stanza/internal/apperr"
)

// ThemeFile mirrors the theme configuration document. Every extension field
// is optional; a file carrying only `content` globs is valid.
type ThemeFile struct {
	Content []string     `yaml:"content"`
	Theme   ThemeSection `yaml:"theme"`
	Plugins []string     `yaml:"plugins"`

	Extra map[string]any `yaml:",inline"` // unknown top-level keys, rejected
}

// ThemeSection holds the recognized customization options.
type ThemeSection struct {
	FontFamily          map[string][]string          `yaml:"fontFamily"`
	TypographyOverrides map[string]map[string]string `yaml:"typographyOverrides"`

	Extra map[string]any `yaml:",inline"` // unknown theme keys, rejected
}

// FontFamily is one named family with its ordered fallback list.
type FontFamily struct {
	Name      string
	Fallbacks []string
}

// TypographyRule is one selector with its declarations, properties sorted.
type TypographyRule struct {
	Selector     string
	Declarations [][2]string // property, value
}

// Rules is the resolved theme, ready for a Backend.
type Rules struct {
	FontFamilies []FontFamily     // sorted by name
	Typography   []TypographyRule // sorted by selector
	Plugins      []string         // opaque pass-through, authored order
}

// allowedSelectors is the documented element subset typography overrides may
// target.
var allowedSelectors = map[string]struct{}{
	"p": {}, "a": {}, "strong": {}, "em": {}, "blockquote": {},
	"pre": {}, "code": {}, "code::before": {}, "code::after": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"ul": {}, "ol": {}, "li": {}, "img": {}, "hr": {}, "table": {},
}

var (
	familyNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
	propertyRe   = regexp.MustCompile(`^-?[a-z][a-z-]*$`)
)

// LoadTheme reads and decodes the theme configuration file.
func LoadTheme(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("styles: read theme %s: %w", path, err)
	}
	var tf ThemeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, &apperr.ConfigError{Key: path, Reason: err.Error()}
	}
	return &tf, nil
}

// ResolveTheme validates the configuration and produces the rule set.
// Unknown keys, unknown selectors and malformed declarations fail with a
// *apperr.ConfigError naming the offending key.
func ResolveTheme(tf *ThemeFile) (*Rules, error) {
	if len(tf.Extra) > 0 {
		return nil, &apperr.ConfigError{Key: firstKey(tf.Extra), Reason: "unknown configuration key"}
	}
	if len(tf.Theme.Extra) > 0 {
		return nil, &apperr.ConfigError{Key: "theme." + firstKey(tf.Theme.Extra), Reason: "unknown configuration key"}
	}

	rules := &Rules{Plugins: append([]string(nil), tf.Plugins...)}

	for _, name := range sortedKeys(tf.Theme.FontFamily) {
		key := "theme.fontFamily." + name
		if !familyNameRe.MatchString(name) {
			return nil, &apperr.ConfigError{Key: key, Reason: "family name must be an identifier"}
		}
		fallbacks := tf.Theme.FontFamily[name]
		if len(fallbacks) == 0 {
			return nil, &apperr.ConfigError{Key: key, Reason: "fallback list must not be empty"}
		}
		for _, fb := range fallbacks {
			if fb == "" {
				return nil, &apperr.ConfigError{Key: key, Reason: "fallback entries must not be empty"}
			}
		}
		rules.FontFamilies = append(rules.FontFamilies, FontFamily{
			Name:      name,
			Fallbacks: append([]string(nil), fallbacks...),
		})
	}

	for _, sel := range sortedKeys(tf.Theme.TypographyOverrides) {
		key := "theme.typographyOverrides." + sel
		if _, ok := allowedSelectors[sel]; !ok {
			return nil, &apperr.ConfigError{Key: key, Reason: fmt.Sprintf("selector %q is not recognized", sel)}
		}
		decls := tf.Theme.TypographyOverrides[sel]
		rule := TypographyRule{Selector: sel}
		for _, prop := range sortedKeys(decls) {
			if !propertyRe.MatchString(prop) {
				return nil, &apperr.ConfigError{Key: key + "." + prop, Reason: "not a CSS property name"}
			}
			val := decls[prop]
			if val == "" {
				return nil, &apperr.ConfigError{Key: key + "." + prop, Reason: "declaration value must not be empty"}
			}
			rule.Declarations = append(rule.Declarations, [2]string{prop, val})
		}
		rules.Typography = append(rules.Typography, rule)
	}

	return rules, nil
}

func firstKey(m map[string]any) string {
	keys := sortedKeys(m)
	return keys[0]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
