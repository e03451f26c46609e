package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. Render
// walks the form fields through the session, asks for submission and returns
// the confirmed summary in the configured output format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if _, err := ParseOutputFormat(string(r.outputFormat)); err != nil {
		return nil, err
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs the interactive session. An already confirmed session skips
// straight to the summary. Answering "close" dismisses the confirmation and
// leaves the session editable with its values intact.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	for _, field := range registration.Fields() {
		if _, ok := form.Field(field.String()); !ok {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteForm, field)
		}
	}

	session := opts.SessionOrEmpty()
	form = render.LocalizeFormModel(form, opts)

	if form.Title != "" {
		if err := r.info(ctx, form.Title); err != nil {
			return nil, err
		}
	}

	for session.Stage() != registration.StageConfirmed {
		for _, field := range form.Fields {
			if err := r.promptField(ctx, field, session, opts); err != nil {
				return nil, err
			}
		}

		submit, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: opts.Text("tui.submit", "Kirim data pendaftaran?"),
			Default: true,
		})
		if err != nil {
			return nil, err
		}
		if !submit {
			continue
		}
		if _, err := session.OnSubmitted(); err != nil {
			if !errors.Is(err, registration.ErrFormInvalid) {
				return nil, err
			}
			if err := r.reportErrors(ctx, session, opts); err != nil {
				return nil, err
			}
		}
	}

	summary := session.Summary()
	if err := r.printSummary(ctx, form, summary, opts); err != nil {
		return nil, err
	}
	payload, err := r.serialize(form, summary)
	if err != nil {
		return nil, err
	}

	closeSummary, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: opts.Text("confirmation.close", "Tutup"),
		Default: true,
	})
	if err != nil {
		return nil, err
	}
	if closeSummary {
		if err := session.Dismiss(); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// promptField asks for one field until the session holds a value without a
// visible error. Answers go through the input filter first; rejected input
// never reaches the session.
func (r *Renderer) promptField(ctx context.Context, field model.Field, session *registration.Session, opts render.RenderOptions) error {
	id, ok := registration.ParseField(field.Name)
	if !ok {
		return nil
	}
	rejected := opts.Text("tui.rejected."+field.Name, "Masukan ditolak")
	secret := id == registration.FieldPassphrase || field.InputType() == "password"

	cfg := InputConfig{
		Message: displayLabel(field),
		Help:    displayHelp(field),
		Validator: func(answer string) error {
			if !registration.AcceptsInput(id, answer) {
				return errors.New(rejected)
			}
			if msg := registration.ValidateField(id, answer); msg != "" {
				return errors.New(msg)
			}
			return nil
		},
	}
	if !secret {
		cfg.Default = session.Value(id)
	}

	for {
		var (
			answer string
			err    error
		)
		if secret {
			answer, err = r.driver.Password(ctx, cfg)
		} else {
			answer, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		if !session.OnValueChanged(id, answer) {
			if err := r.fail(ctx, rejected); err != nil {
				return err
			}
			continue
		}
		session.OnBlurred(id)

		if id == registration.FieldPassphrase {
			if err := r.info(ctx, r.meter(session.Strength(), opts)); err != nil {
				return err
			}
		}
		if msg := session.VisibleError(id); msg != "" {
			if err := r.fail(ctx, msg); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (r *Renderer) reportErrors(ctx context.Context, session *registration.Session, opts render.RenderOptions) error {
	if err := r.fail(ctx, opts.Text("tui.incomplete", "Data belum lengkap")); err != nil {
		return err
	}
	for _, field := range registration.Fields() {
		if msg := session.VisibleError(field); msg != "" {
			if err := r.fail(ctx, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) printSummary(ctx context.Context, form model.FormModel, summary registration.Summary, opts render.RenderOptions) error {
	lines := []string{
		opts.Text("confirmation.title", "Pendaftaran Berhasil!"),
		opts.Text("confirmation.subtitle", "Berikut ringkasan data Anda"),
	}
	for _, entry := range summary.Entries {
		lines = append(lines, fmt.Sprintf("  %s: %s", summaryLabel(form, entry), entry.Value))
	}
	for _, line := range lines {
		if err := r.info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) meter(strength registration.PasswordStrength, opts render.RenderOptions) string {
	var bar strings.Builder
	for _, lit := range strength.Segments() {
		if lit {
			bar.WriteString(r.theme.MeterOn)
		} else {
			bar.WriteString(r.theme.MeterOff)
		}
	}
	return fmt.Sprintf("%s: %s %s", opts.Text("strength.title", "Kekuatan kata sandi"), bar.String(), strength.Label)
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(form model.FormModel, summary registration.Summary) ([]byte, error) {
	values := summary.Map()
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: transform summary: %w", err)
		}
		values = transformed
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for key, value := range values {
			encoded.Set(key, value)
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, summary, values)), nil
	default:
		return json.Marshal(values)
	}
}

// prettyPrint writes summary entries in form order, then any keys a
// transformer added, sorted.
func prettyPrint(form model.FormModel, summary registration.Summary, values map[string]string) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(values))
	for _, entry := range summary.Entries {
		key := entry.Field.String()
		value, ok := values[key]
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		fmt.Fprintf(&b, "%s: %s\n", summaryLabel(form, entry), value)
	}

	extra := make([]string, 0, len(values))
	for key := range values {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&b, "%s: %s\n", key, values[key])
	}
	return b.String()
}

func summaryLabel(form model.FormModel, entry registration.SummaryEntry) string {
	if field, ok := form.Field(entry.Field.String()); ok && field.Label != "" {
		return field.Label
	}
	return entry.Label
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if hint := field.Metadata[model.MetadataHint]; hint != "" {
		return hint
	}
	if field.Placeholder != "" {
		return field.Placeholder
	}
	return field.Description
}
