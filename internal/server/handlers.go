package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

const (
	eventChange = "change"
	eventBlur   = "blur"
	eventReveal = "reveal"
)

type strengthState struct {
	Level    int      `json:"level"`
	Label    string   `json:"label"`
	Weight   string   `json:"weight"`
	Color    string   `json:"color,omitempty"`
	Segments []string `json:"segments"`
}

type fieldState struct {
	Field       string         `json:"field"`
	Value       string         `json:"value"`
	Error       string         `json:"error,omitempty"`
	Touched     bool           `json:"touched"`
	Accepted    bool           `json:"accepted"`
	Valid       bool           `json:"valid"`
	Stage       string         `json:"stage"`
	SubmitLabel string         `json:"submit_label"`
	Remaining   string         `json:"remaining,omitempty"`
	Strength    *strengthState `json:"strength,omitempty"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	session := s.loadSession(r.Context())
	s.renderPage(w, r, http.StatusOK, session, nil)
}

// events applies one input command (change, blur or reveal) and reports the
// resulting state of the field.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	field, ok := registration.ParseField(r.PostForm.Get("field"))
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unknown field")
		return
	}

	session := s.loadSession(r.Context())
	accepted := true
	switch event := r.PostForm.Get("event"); event {
	case eventChange:
		accepted = session.OnValueChanged(field, r.PostForm.Get("value"))
	case eventBlur:
		accepted = session.OnBlurred(field)
	case eventReveal:
		session.SetPassphraseVisible(r.PostForm.Get("value") == "1")
	default:
		writeJSONError(w, http.StatusBadRequest, "unknown event")
		return
	}
	s.saveSession(r.Context(), session)

	s.logger.Debug("field event", "event", r.PostForm.Get("event"), "field", field.String(), "accepted", accepted)

	opts := s.renderOptions(r, session)
	state := fieldState{
		Field:       field.String(),
		Value:       session.Value(field),
		Error:       session.VisibleError(field),
		Touched:     session.IsTouched(field),
		Accepted:    accepted,
		Valid:       session.Valid(),
		Stage:       session.Stage().String(),
		SubmitLabel: submitLabel(opts, session.Valid()),
	}
	if field == registration.FieldPassphrase {
		strength := session.Strength()
		state.Strength = &strengthState{
			Level:    strength.Level,
			Label:    strength.Label,
			Weight:   string(strength.Weight),
			Color:    opts.Theme.StrengthColor(strength.Weight),
			Segments: opts.Theme.SegmentColors(strength),
		}
		if state.Error != "" {
			if n := registration.PassphraseRemaining(state.Value); n > 0 {
				state.Remaining = vanilla.PassphraseRemainingText(opts, n)
			}
		}
	}
	writeJSON(w, http.StatusOK, state)
}

// submit handles the form post carrying every field. Each posted value is
// applied as a change followed by a blur before OnSubmitted. The button is
// only enabled by the script's /events replies.
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	session := s.loadSession(r.Context())
	opts := s.renderOptions(r, session)

	if session.Stage() == registration.StageConfirmed {
		s.renderPage(w, r, http.StatusOK, session, nil)
		return
	}

	var formErrors []string
	for _, field := range registration.Fields() {
		values, posted := r.PostForm[field.String()]
		if posted && len(values) > 0 && !session.OnValueChanged(field, values[0]) {
			formErrors = append(formErrors, opts.Text("tui.rejected."+field.String(), "Masukan ditolak"))
		}
		session.OnBlurred(field)
	}

	_, err := session.OnSubmitted()
	s.saveSession(r.Context(), session)
	if err != nil {
		if !errors.Is(err, registration.ErrFormInvalid) {
			s.logger.Error("submit failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		formErrors = append(formErrors, opts.Text("form.incomplete", "Data belum lengkap"))
		s.logger.Info("registration rejected", "invalid_fields", invalidFields(session))
		s.renderPage(w, r, http.StatusUnprocessableEntity, session, formErrors)
		return
	}

	s.logger.Info("registration confirmed")
	s.renderPage(w, r, http.StatusOK, session, nil)
}

func (s *Server) dismiss(w http.ResponseWriter, r *http.Request) {
	session := s.loadSession(r.Context())
	if err := session.Dismiss(); err != nil && !errors.Is(err, registration.ErrNotConfirmed) {
		s.logger.Error("dismiss failed", "error", err)
	}
	s.saveSession(r.Context(), session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	session := s.loadSession(r.Context())
	session.Reset()
	s.saveSession(r.Context(), session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, session *registration.Session, formErrors []string) {
	opts := s.renderOptions(r, session)
	opts.FormErrors = render.MergeFormErrors(opts.FormErrors, formErrors...)

	body, err := s.renderer.Render(r.Context(), s.form, opts)
	if err != nil {
		s.logger.Error("render failed", "renderer", s.renderer.Name(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// renderOptions resolves the request locale: the lang parameter wins and is
// remembered in the session, then the remembered choice, then the default.
func (s *Server) renderOptions(r *http.Request, session *registration.Session) render.RenderOptions {
	locale := s.locale
	if remembered := s.sessions.GetString(r.Context(), localeKey); remembered != "" {
		locale = remembered
	}
	if requested := r.FormValue("lang"); requested != "" && s.catalog.HasLocale(requested) {
		locale = requested
		s.sessions.Put(r.Context(), localeKey, requested)
	}

	return render.RenderOptions{
		Session:    session,
		Locale:     locale,
		Translator: s.catalog,
		Theme:      s.theme,
		Hidden:     render.MergeHiddenFields(nil, render.Hidden("lang", locale)),
	}
}

func submitLabel(opts render.RenderOptions, valid bool) string {
	if valid {
		return opts.Text("form.submit.ready", "Daftar Sekarang")
	}
	return opts.Text("form.submit.incomplete", "Lengkapi Semua Data")
}

func invalidFields(session *registration.Session) []string {
	var out []string
	for _, field := range registration.Fields() {
		if session.Error(field) != "" {
			out = append(out, field.String())
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
