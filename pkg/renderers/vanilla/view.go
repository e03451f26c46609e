package vanilla

import (
	"strconv"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

// View data is built from plain maps and slices so the template engine
// passes it through without a JSON round trip.

func (r *Renderer) baseView(opts render.RenderOptions) map[string]any {
	locale := opts.Locale
	if locale == "" {
		locale = render.DefaultLocale
	}

	hidden := make([]any, 0, len(opts.Hidden))
	for _, field := range render.SortedHiddenFields(opts.Hidden) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	return map[string]any{
		"locale":     locale,
		"assets":     r.actions.Assets,
		"stylesheet": StylesheetName,
		"script":     RuntimeScriptName,
		"style":      opts.Theme.InlineStyle(),
		"classes":    r.classes,
		"hidden":     hidden,
		"icons": map[string]any{
			"mountain": r.icons["mountain"],
			"cloud":    r.icons["cloud"],
			"check":    r.icons["check"],
			"x":        r.icons["x"],
			"eye":      r.icons["eye"],
			"eye_off":  r.icons["eye-off"],
		},
		"actions": map[string]any{
			"submit":  r.actions.Submit,
			"events":  r.actions.Events,
			"dismiss": r.actions.Dismiss,
		},
	}
}

func (r *Renderer) formView(view map[string]any, form model.FormModel, opts render.RenderOptions) {
	session := opts.SessionOrEmpty()

	var (
		rows    []any
		current map[string]any
	)
	for _, field := range form.Fields {
		entry := fieldView(field, session, opts)
		group := field.Metadata[model.MetadataRow]
		if current != nil && group != "" && current["group"] == group {
			current["fields"] = append(current["fields"].([]any), entry)
			current["grouped"] = true
			continue
		}
		current = map[string]any{
			"group":   group,
			"grouped": false,
			"fields":  []any{entry},
		}
		rows = append(rows, current)
	}

	errors := make([]any, 0, len(opts.FormErrors))
	for _, message := range render.MergeFormErrors(opts.FormErrors) {
		errors = append(errors, message)
	}

	valid := session.Valid()
	submitLabel := opts.Text("form.submit.incomplete", "Lengkapi Semua Data")
	if valid {
		submitLabel = opts.Text("form.submit.ready", "Daftar Sekarang")
	}

	view["form"] = map[string]any{
		"id":       form.ID,
		"title":    form.Title,
		"subtitle": form.Subtitle,
	}
	view["rows"] = rows
	view["errors"] = errors
	view["strength"] = strengthView(session.Strength(), opts.Theme)
	view["submit"] = map[string]any{
		"enabled": valid,
		"label":   submitLabel,
	}
	view["text"] = map[string]any{
		"required": opts.Text("form.required", "wajib"),
		"show":     opts.Text("passphrase.show", "Tampilkan kata sandi"),
		"hide":     opts.Text("passphrase.hide", "Sembunyikan kata sandi"),
		"strength": opts.Text("strength.title", "Kekuatan kata sandi"),
	}
}

func (r *Renderer) confirmationView(view map[string]any, form model.FormModel, opts render.RenderOptions) {
	summary := opts.SessionOrEmpty().Summary()

	entries := make([]any, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		label := entry.Label
		if field, ok := form.Field(entry.Field.String()); ok && field.Label != "" {
			label = field.Label
		}
		entries = append(entries, map[string]any{
			"field": entry.Field.String(),
			"label": label,
			"value": entry.Value,
		})
	}

	view["entries"] = entries
	view["text"] = map[string]any{
		"title":    opts.Text("confirmation.title", "Pendaftaran Berhasil!"),
		"subtitle": opts.Text("confirmation.subtitle", "Berikut ringkasan data Anda"),
		"close":    opts.Text("confirmation.close", "Tutup"),
	}
}

func fieldView(field model.Field, session *registration.Session, opts render.RenderOptions) map[string]any {
	id, _ := registration.ParseField(field.Name)
	passphrase := id == registration.FieldPassphrase
	revealed := passphrase && session.PassphraseVisible()

	inputType := field.InputType()
	if revealed {
		inputType = "text"
	}

	maxLength := ""
	if rule, ok := field.Rule(model.ValidationRuleMaxLength); ok {
		maxLength = rule.Params["value"]
	}

	visibleError := session.VisibleError(id)
	remaining := ""
	if passphrase && visibleError != "" {
		if n := registration.PassphraseRemaining(session.Value(id)); n > 0 {
			remaining = PassphraseRemainingText(opts, n)
		}
	}

	return map[string]any{
		"name":         field.Name,
		"id":           controlID(field.Name),
		"error_id":     errorID(field.Name),
		"counter_id":   counterID(field.Name),
		"remaining_id": remainingID(field.Name),
		"label":        field.Label,
		"placeholder":  field.Placeholder,
		"hint":         field.Metadata[model.MetadataHint],
		"inputmode":    field.Metadata[model.MetadataInputMode],
		"counter":      field.Metadata[model.MetadataCounter],
		"maxlength":    maxLength,
		"type":         inputType,
		"required":     field.Required,
		"value":        session.Value(id),
		"error":        visibleError,
		"remaining":    remaining,
		"touched":      session.IsTouched(id),
		"passphrase":   passphrase,
		"revealed":     revealed,
	}
}

func strengthView(strength registration.PasswordStrength, theme *render.ThemeConfig) map[string]any {
	lit := strength.Segments()
	colors := theme.SegmentColors(strength)
	segments := make([]any, 0, len(lit))
	for i, on := range lit {
		segments = append(segments, map[string]any{
			"lit":   on,
			"color": colors[i],
		})
	}

	return map[string]any{
		"level":    strconv.Itoa(strength.Level),
		"label":    strength.Label,
		"weight":   string(strength.Weight),
		"color":    theme.StrengthColor(strength.Weight),
		"segments": segments,
	}
}

// PassphraseRemainingText is the hint shown under a touched passphrase that is
// n characters short.
func PassphraseRemainingText(opts render.RenderOptions, n int) string {
	return opts.Textf("passphrase.remaining", "Kurang %d karakter lagi", n)
}
