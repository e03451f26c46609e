package registration

import "errors"

var (
	// ErrFormInvalid is returned by OnSubmitted while any field is empty or
	// invalid.
	ErrFormInvalid = errors.New("registration: form is not valid")
	// ErrAlreadyConfirmed is returned by OnSubmitted once the session shows
	// its confirmation.
	ErrAlreadyConfirmed = errors.New("registration: already confirmed")
	// ErrNotConfirmed is returned by Dismiss while the session is editing.
	ErrNotConfirmed = errors.New("registration: not confirmed")
)

// Stage is the lifecycle state of a Session.
type Stage int

const (
	StageEditing Stage = iota
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageEditing:
		return "editing"
	case StageConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Session tracks the values, touched flags and errors of one form instance.
// The zero value is not usable; call NewSession.
type Session struct {
	values            Values
	errors            FieldErrors
	touched           Touched
	stage             Stage
	passphraseVisible bool
}

// NewSession returns an empty session in the Editing stage.
func NewSession() *Session {
	return &Session{
		values:  NewValues(),
		errors:  make(FieldErrors),
		touched: make(Touched),
	}
}

// OnValueChanged applies a new value for field. It reports false, leaving the
// session unchanged, when the session is confirmed, the field is unknown or
// the input filter refuses the value. Touched fields are re-validated
// immediately; untouched ones keep their error state until blur.
func (s *Session) OnValueChanged(field Field, value string) bool {
	if s.stage != StageEditing || !field.Known() {
		return false
	}
	if !AcceptsInput(field, value) {
		return false
	}
	s.values[field] = value
	if s.touched[field] {
		s.revalidate(field)
	}
	return true
}

// OnBlurred marks field as touched and validates its current value.
func (s *Session) OnBlurred(field Field) bool {
	if s.stage != StageEditing || !field.Known() {
		return false
	}
	s.touched[field] = true
	s.revalidate(field)
	return true
}

// OnSubmitted moves the session to Confirmed and returns the confirmation
// summary. An invalid form stays in Editing with every field touched so all
// messages become visible.
func (s *Session) OnSubmitted() (Summary, error) {
	if s.stage == StageConfirmed {
		return Summary{}, ErrAlreadyConfirmed
	}
	if !s.Valid() {
		for _, field := range orderedFields {
			s.touched[field] = true
			s.revalidate(field)
		}
		return Summary{}, ErrFormInvalid
	}
	s.stage = StageConfirmed
	return NewSummary(s.values), nil
}

// Dismiss closes the confirmation and returns to Editing. Values are kept.
func (s *Session) Dismiss() error {
	if s.stage != StageConfirmed {
		return ErrNotConfirmed
	}
	s.stage = StageEditing
	return nil
}

// Reset clears every value, error and touched flag and returns to Editing.
func (s *Session) Reset() {
	s.values = NewValues()
	s.errors = make(FieldErrors)
	s.touched = make(Touched)
	s.stage = StageEditing
	s.passphraseVisible = false
}

// SetPassphraseVisible toggles whether renderers show the passphrase in clear.
func (s *Session) SetPassphraseVisible(visible bool) {
	s.passphraseVisible = visible
}

// PassphraseVisible reports the show/hide state of the passphrase input.
func (s *Session) PassphraseVisible() bool {
	return s.passphraseVisible
}

// Stage returns the lifecycle stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// Value returns the current value of field.
func (s *Session) Value(field Field) string {
	return s.values[field]
}

// Values returns a copy of all current values.
func (s *Session) Values() Values {
	return s.values.Clone()
}

// Error returns the stored message of field, "" when none.
func (s *Session) Error(field Field) string {
	return s.errors[field]
}

// VisibleError returns the message of field only once it has been touched.
func (s *Session) VisibleError(field Field) string {
	if !s.touched[field] {
		return ""
	}
	return s.errors[field]
}

// Errors returns a copy of the stored messages.
func (s *Session) Errors() FieldErrors {
	out := make(FieldErrors, len(s.errors))
	for field, msg := range s.errors {
		out[field] = msg
	}
	return out
}

// IsTouched reports whether field lost focus at least once.
func (s *Session) IsTouched(field Field) bool {
	return s.touched[field]
}

// Touched returns a copy of the touched flags.
func (s *Session) Touched() Touched {
	out := make(Touched, len(s.touched))
	for field, touched := range s.touched {
		out[field] = touched
	}
	return out
}

// Valid reports whether the form can be submitted. It is computed from the
// current values on every call.
func (s *Session) Valid() bool {
	return IsValid(s.values)
}

// Strength returns the strength tier of the current passphrase.
func (s *Session) Strength() PasswordStrength {
	return StrengthFor(s.values[FieldPassphrase])
}

// Summary returns the confirmation summary of the current values.
func (s *Session) Summary() Summary {
	return NewSummary(s.values)
}

func (s *Session) revalidate(field Field) {
	if msg := ValidateField(field, s.values[field]); msg != "" {
		s.errors[field] = msg
		return
	}
	delete(s.errors, field)
}
