package styles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Backend generates stylesheet text from scanned tokens and resolved theme
// rules. Implementations must be pure: identical inputs produce
// byte-identical output.
type Backend interface {
	Emit(tokens []string, rules *Rules) (string, error)
}

// BuiltinBackend is the default Backend. It covers a small utility
// vocabulary (display, flex alignment, a spacing scale, sizing, typography,
// a gray color ramp, borders) and silently skips tokens it does not know;
// the full framework remains an external collaborator.
type BuiltinBackend struct{}

// breakpoints maps responsive variant prefixes to min-width media queries,
// in emission order.
var breakpoints = []struct {
	name  string
	width string
}{
	{"sm", "640px"},
	{"md", "768px"},
	{"lg", "1024px"},
	{"xl", "1280px"},
}

// stateVariants maps state variant prefixes to pseudo-class suffixes.
var stateVariants = map[string]string{
	"hover":   ":hover",
	"focus":   ":focus",
	"active":  ":active",
	"visited": ":visited",
}

// Emit renders the stylesheet: font-family variables first, typography
// overrides second, base utilities in token order, then responsive variants
// grouped per breakpoint. Input tokens are sorted again before use so the
// output cannot depend on caller ordering.
func (BuiltinBackend) Emit(tokens []string, rules *Rules) (string, error) {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)

	families := make(map[string]struct{}, len(rules.FontFamilies))
	for _, f := range rules.FontFamilies {
		families[f.Name] = struct{}{}
	}

	var sb strings.Builder
	sb.WriteString("/* generated by stanza */\n")

	if len(rules.FontFamilies) > 0 {
		sb.WriteString("\n:root {\n")
		for _, f := range rules.FontFamilies {
			fmt.Fprintf(&sb, "  --font-%s: %s;\n", f.Name, strings.Join(f.Fallbacks, ", "))
		}
		sb.WriteString("}\n")
	}

	for _, t := range rules.Typography {
		fmt.Fprintf(&sb, "\n%s {\n", t.Selector)
		for _, d := range t.Declarations {
			fmt.Fprintf(&sb, "  %s: %s;\n", d[0], d[1])
		}
		sb.WriteString("}\n")
	}

	type variantRule struct {
		token  string
		decls  [][2]string
		pseudo string
	}
	responsive := make(map[string][]variantRule)

	for _, tok := range sorted {
		variants, base := splitVariants(tok)
		decls, ok := resolveUtility(base, families)
		if !ok {
			continue
		}

		breakpoint, pseudo, ok := resolveVariants(variants)
		if !ok {
			continue
		}

		if breakpoint != "" {
			responsive[breakpoint] = append(responsive[breakpoint], variantRule{token: tok, decls: decls, pseudo: pseudo})
			continue
		}
		writeRule(&sb, "", ".", cssEscape(tok)+pseudo, decls)
	}

	for _, bp := range breakpoints {
		group := responsive[bp.name]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n@media (min-width: %s) {\n", bp.width)
		for i, r := range group {
			if i > 0 {
				sb.WriteString("\n")
			}
			writeRule(&sb, "  ", ".", cssEscape(r.token)+r.pseudo, r.decls)
		}
		sb.WriteString("}\n")
	}

	return sb.String(), nil
}

func writeRule(sb *strings.Builder, indent, prefix, selector string, decls [][2]string) {
	if indent == "" {
		sb.WriteString("\n")
	}
	fmt.Fprintf(sb, "%s%s%s {\n", indent, prefix, selector)
	for _, d := range decls {
		fmt.Fprintf(sb, "%s  %s: %s;\n", indent, d[0], d[1])
	}
	fmt.Fprintf(sb, "%s}\n", indent)
}

// splitVariants separates variant prefixes from the base utility.
func splitVariants(tok string) ([]string, string) {
	parts := strings.Split(tok, ":")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// resolveVariants maps variant prefixes to at most one breakpoint and one
// pseudo-class. Tokens with unknown variants are skipped.
func resolveVariants(variants []string) (breakpoint, pseudo string, ok bool) {
	for _, v := range variants {
		if suffix, isState := stateVariants[v]; isState {
			pseudo += suffix
			continue
		}
		if isBreakpoint(v) {
			if breakpoint != "" {
				return "", "", false
			}
			breakpoint = v
			continue
		}
		return "", "", false
	}
	return breakpoint, pseudo, true
}

func isBreakpoint(v string) bool {
	for _, bp := range breakpoints {
		if bp.name == v {
			return true
		}
	}
	return false
}

// cssEscape escapes the characters a token may carry that are not valid in
// a CSS class selector.
func cssEscape(tok string) string {
	var sb strings.Builder
	for _, r := range tok {
		switch r {
		case ':', '.', '/':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// staticUtilities are utilities with fixed declarations.
var staticUtilities = map[string][][2]string{
	"block":        {{"display", "block"}},
	"inline":       {{"display", "inline"}},
	"inline-block": {{"display", "inline-block"}},
	"flex":         {{"display", "flex"}},
	"inline-flex":  {{"display", "inline-flex"}},
	"grid":         {{"display", "grid"}},
	"hidden":       {{"display", "none"}},

	"flex-row":  {{"flex-direction", "row"}},
	"flex-col":  {{"flex-direction", "column"}},
	"flex-wrap": {{"flex-wrap", "wrap"}},

	"items-start":     {{"align-items", "flex-start"}},
	"items-center":    {{"align-items", "center"}},
	"items-end":       {{"align-items", "flex-end"}},
	"justify-start":   {{"justify-content", "flex-start"}},
	"justify-center":  {{"justify-content", "center"}},
	"justify-end":     {{"justify-content", "flex-end"}},
	"justify-between": {{"justify-content", "space-between"}},
	"justify-around":  {{"justify-content", "space-around"}},

	"text-left":    {{"text-align", "left"}},
	"text-center":  {{"text-align", "center"}},
	"text-right":   {{"text-align", "right"}},
	"text-justify": {{"text-align", "justify"}},

	"italic":       {{"font-style", "italic"}},
	"underline":    {{"text-decoration-line", "underline"}},
	"line-through": {{"text-decoration-line", "line-through"}},
	"no-underline": {{"text-decoration-line", "none"}},

	"font-light":    {{"font-weight", "300"}},
	"font-normal":   {{"font-weight", "400"}},
	"font-medium":   {{"font-weight", "500"}},
	"font-semibold": {{"font-weight", "600"}},
	"font-bold":     {{"font-weight", "700"}},

	"leading-none":    {{"line-height", "1"}},
	"leading-tight":   {{"line-height", "1.25"}},
	"leading-normal":  {{"line-height", "1.5"}},
	"leading-relaxed": {{"line-height", "1.625"}},

	"border": {{"border-width", "1px"}},

	"rounded":      {{"border-radius", "0.25rem"}},
	"rounded-sm":   {{"border-radius", "0.125rem"}},
	"rounded-md":   {{"border-radius", "0.375rem"}},
	"rounded-lg":   {{"border-radius", "0.5rem"}},
	"rounded-full": {{"border-radius", "9999px"}},

	"w-full":   {{"width", "100%"}},
	"w-auto":   {{"width", "auto"}},
	"w-screen": {{"width", "100vw"}},
	"h-full":   {{"height", "100%"}},
	"h-auto":   {{"height", "auto"}},
	"h-screen": {{"height", "100vh"}},

	"mx-auto": {{"margin-left", "auto"}, {"margin-right", "auto"}},
}

var fontSizes = map[string]string{
	"xs": "0.75rem", "sm": "0.875rem", "base": "1rem", "lg": "1.125rem",
	"xl": "1.25rem", "2xl": "1.5rem", "3xl": "1.875rem", "4xl": "2.25rem",
}

var maxWidths = map[string]string{
	"prose": "65ch", "sm": "24rem", "md": "28rem", "lg": "32rem",
	"xl": "36rem", "2xl": "42rem", "full": "100%",
}

// colors is the builtin palette: white, black and a gray ramp.
var colors = map[string]string{
	"white":       "#ffffff",
	"black":       "#000000",
	"transparent": "transparent",
	"current":     "currentColor",
	"gray-50":     "#f9fafb",
	"gray-100":    "#f3f4f6",
	"gray-200":    "#e5e7eb",
	"gray-300":    "#d1d5db",
	"gray-400":    "#9ca3af",
	"gray-500":    "#6b7280",
	"gray-600":    "#4b5563",
	"gray-700":    "#374151",
	"gray-800":    "#1f2937",
	"gray-900":    "#111827",
}

// spacingProps maps spacing utility prefixes to the CSS properties they set.
var spacingProps = map[string][]string{
	"m":  {"margin"},
	"mt": {"margin-top"}, "mr": {"margin-right"}, "mb": {"margin-bottom"}, "ml": {"margin-left"},
	"mx": {"margin-left", "margin-right"}, "my": {"margin-top", "margin-bottom"},
	"p":  {"padding"},
	"pt": {"padding-top"}, "pr": {"padding-right"}, "pb": {"padding-bottom"}, "pl": {"padding-left"},
	"px": {"padding-left", "padding-right"}, "py": {"padding-top", "padding-bottom"},
	"gap": {"gap"}, "gap-x": {"column-gap"}, "gap-y": {"row-gap"},
	"w": {"width"}, "h": {"height"},
}

// resolveUtility maps a base utility token to its declarations.
func resolveUtility(base string, families map[string]struct{}) ([][2]string, bool) {
	if decls, ok := staticUtilities[base]; ok {
		return decls, true
	}

	prefix, rest, dashed := splitLastScale(base)
	if !dashed {
		return nil, false
	}

	switch prefix {
	case "text":
		if size, ok := fontSizes[rest]; ok {
			return [][2]string{{"font-size", size}}, true
		}
		if c, ok := colors[rest]; ok {
			return [][2]string{{"color", c}}, true
		}
	case "bg":
		if c, ok := colors[rest]; ok {
			return [][2]string{{"background-color", c}}, true
		}
	case "border":
		if c, ok := colors[rest]; ok {
			return [][2]string{{"border-color", c}}, true
		}
	case "max-w":
		if w, ok := maxWidths[rest]; ok {
			return [][2]string{{"max-width", w}}, true
		}
	case "font":
		if _, ok := families[rest]; ok {
			return [][2]string{{"font-family", "var(--font-" + rest + ")"}}, true
		}
	}

	if props, ok := spacingProps[prefix]; ok {
		if v, ok := scaleValue(rest); ok {
			decls := make([][2]string, 0, len(props))
			for _, p := range props {
				decls = append(decls, [2]string{p, v})
			}
			return decls, true
		}
	}

	return nil, false
}

// splitLastScale splits `bg-gray-100` into prefix and scale value, trying
// the longest known color/size suffix first so ramp names keep their step.
func splitLastScale(base string) (prefix, rest string, ok bool) {
	idx := strings.Index(base, "-")
	if idx < 0 {
		return "", "", false
	}
	// Longest-prefix match: max-w-md, gap-x-4.
	for _, p := range []string{"max-w", "gap-x", "gap-y"} {
		if strings.HasPrefix(base, p+"-") {
			return p, base[len(p)+1:], true
		}
	}
	return base[:idx], base[idx+1:], true
}

// scaleValue converts a spacing-scale step into a CSS length: numbers are
// quarters of a rem, `px` is one pixel.
func scaleValue(s string) (string, bool) {
	switch s {
	case "0":
		return "0", true
	case "px":
		return "1px", true
	case "auto":
		return "auto", true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return "", false
	}
	return strconv.FormatFloat(n*0.25, 'f', -1, 64) + "rem", true
}
