package tui

import (
	"fmt"
	"strings"
)

// OutputFormat controls how the confirmed summary is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "Label: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, nil
	case "":
		return OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutputFormat, raw)
	}
}

// Theme captures the prefixes applied to printed messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	// MeterOn and MeterOff draw lit and unlit strength segments.
	MeterOn  string
	MeterOff string
}

// DefaultTheme is used when WithTheme is not supplied.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:  "",
		ErrorPrefix: "✗ ",
		MeterOn:     "■",
		MeterOff:    "□",
	}
}

// SubmitTransformer mutates the summary map before serialization.
type SubmitTransformer func(map[string]string) (map[string]string, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate the summary prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme overrides message prefixes and meter glyphs. Empty members keep
// the defaults.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		if theme.InfoPrefix != "" {
			r.theme.InfoPrefix = theme.InfoPrefix
		}
		if theme.ErrorPrefix != "" {
			r.theme.ErrorPrefix = theme.ErrorPrefix
		}
		if theme.MeterOn != "" {
			r.theme.MeterOn = theme.MeterOn
		}
		if theme.MeterOff != "" {
			r.theme.MeterOff = theme.MeterOff
		}
	}
}
