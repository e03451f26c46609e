package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-regform/pkg/registration"
)

// DefaultThemeName identifies the built-in manifest.
const DefaultThemeName = "pegunungan"

// ThemeConfig is the resolved theme a renderer consumes: merged tokens of the
// manifest and the selected variant, plus CSS custom properties derived from
// them.
type ThemeConfig struct {
	Theme   string
	Variant string
	Tokens  map[string]string
	CSSVars map[string]string
}

// DefaultThemeManifest returns the built-in go-theme manifest with a light
// and a dark variant. Strength weights map to strength.<weight> tokens.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"strength.muted":  "#334155",
			"strength.red":    "#ef4444",
			"strength.orange": "#f97316",
			"strength.yellow": "#eab308",
			"strength.green":  "#22c55e",
			"accent":          "#06b6d4",
			"error":           "#f87171",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#0f172a",
					"text":    "#f8fafc",
					"border":  "#475569",
				},
			},
			"light": {
				Tokens: map[string]string{
					"surface":        "#f8fafc",
					"text":           "#0f172a",
					"border":         "#cbd5e1",
					"strength.muted": "#e2e8f0",
				},
			},
		},
	}
}

// ResolveTheme merges manifest tokens with the variant's overrides. An empty
// variant uses the base tokens only; an unknown variant is an error.
func ResolveTheme(manifest *theme.Manifest, variant string) (*ThemeConfig, error) {
	if manifest == nil {
		return nil, fmt.Errorf("render: theme manifest is required")
	}
	variant = strings.TrimSpace(variant)

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", manifest.Name, variant)
		}
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.ReplaceAll(key, ".", "-")] = value
	}

	return &ThemeConfig{
		Theme:   manifest.Name,
		Variant: variant,
		Tokens:  tokens,
		CSSVars: cssVars,
	}, nil
}

// VariantNames lists the manifest's variants, sorted.
func VariantNames(manifest *theme.Manifest) []string {
	if manifest == nil {
		return nil
	}
	names := make([]string, 0, len(manifest.Variants))
	for name := range manifest.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StrengthColor returns the colour token of a strength weight, "" when the
// theme does not define it.
func (c *ThemeConfig) StrengthColor(weight registration.Weight) string {
	if c == nil {
		return ""
	}
	return c.Tokens["strength."+string(weight)]
}

// SegmentColors returns one colour per meter segment: lit segments take the
// strength colour, the rest the muted colour.
func (c *ThemeConfig) SegmentColors(strength registration.PasswordStrength) []string {
	muted := c.StrengthColor(registration.WeightMuted)
	color := c.StrengthColor(strength.Weight)

	lit := strength.Segments()
	out := make([]string, 0, len(lit))
	for _, on := range lit {
		if on {
			out = append(out, color)
			continue
		}
		out = append(out, muted)
	}
	return out
}

// InlineStyle renders the CSS variables as a style attribute body, sorted
// for stable output.
func (c *ThemeConfig) InlineStyle() string {
	if c == nil || len(c.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(c.CSSVars))
	for key := range c.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, c.CSSVars[key])
	}
	return strings.TrimSpace(b.String())
}
