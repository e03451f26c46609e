package render

import "github.com/goliatone/go-regform/pkg/registration"

// RenderOptions describe per-request data renderers use to customise their
// output without mutating the form model.
type RenderOptions struct {
	// Session supplies values, visible errors, validity and strength. A nil
	// session renders an empty form.
	Session *registration.Session
	// Locale selects the chrome strings; empty means DefaultLocale.
	Locale string
	// Translator resolves chrome strings. Nil falls back to DefaultCatalog.
	Translator Translator
	// OnMissing controls the string used when a translation is missing.
	OnMissing MissingTranslationHandler
	// Theme carries resolved tokens (strength colours, CSS variables).
	Theme *ThemeConfig
	// Hidden lists hidden inputs emitted with every form that posts back.
	Hidden map[string]string
	// FormErrors are form-level messages shown above the fields.
	FormErrors []string
}

// SessionOrEmpty returns opts.Session or a fresh session.
func (o RenderOptions) SessionOrEmpty() *registration.Session {
	if o.Session != nil {
		return o.Session
	}
	return registration.NewSession()
}
