package registration_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/registration"
)

func TestSession_ErrorsHiddenUntilBlur(t *testing.T) {
	s := registration.NewSession()

	if !s.OnValueChanged(registration.FieldEmail, "abc") {
		t.Fatalf("expected change to be accepted")
	}
	if got := s.Error(registration.FieldEmail); got != "" {
		t.Fatalf("untouched field should not carry an error, got %q", got)
	}

	s.OnBlurred(registration.FieldEmail)
	if got := s.VisibleError(registration.FieldEmail); got != registration.MsgEmailFormat {
		t.Fatalf("after blur: got %q", got)
	}

	// Live validation once touched.
	s.OnValueChanged(registration.FieldEmail, "a@b.co")
	if got := s.VisibleError(registration.FieldEmail); got != "" {
		t.Fatalf("expected error cleared while typing, got %q", got)
	}
	s.OnValueChanged(registration.FieldEmail, "a@b")
	if got := s.VisibleError(registration.FieldEmail); got != registration.MsgEmailFormat {
		t.Fatalf("expected live error, got %q", got)
	}
}

func TestSession_UntouchedFieldKeepsErrorStateOnChange(t *testing.T) {
	s := registration.NewSession()
	s.OnValueChanged(registration.FieldOwnName, "")
	if len(s.Errors()) != 0 {
		t.Fatalf("expected no errors before blur, got %v", s.Errors())
	}
	if s.IsTouched(registration.FieldOwnName) {
		t.Fatalf("change must not mark the field touched")
	}
}

func TestSession_NIKInputFilter(t *testing.T) {
	s := registration.NewSession()
	s.OnValueChanged(registration.FieldNIK, "1234")
	s.OnBlurred(registration.FieldNIK)

	if s.OnValueChanged(registration.FieldNIK, "1234a") {
		t.Fatalf("non-digit input must be rejected")
	}
	if got := s.Value(registration.FieldNIK); got != "1234" {
		t.Fatalf("rejected input must leave the value alone, got %q", got)
	}
	if got := s.VisibleError(registration.FieldNIK); got != registration.MsgNIKLength {
		t.Fatalf("error should still describe the kept value, got %q", got)
	}

	if s.OnValueChanged(registration.FieldNIK, "12345678901234567") {
		t.Fatalf("more than 16 digits must be rejected")
	}
	if !s.OnValueChanged(registration.FieldNIK, "") {
		t.Fatalf("clearing the field must be accepted")
	}
}

func TestSession_UnknownFieldIgnored(t *testing.T) {
	s := registration.NewSession()
	if s.OnValueChanged("alamat", "x") || s.OnBlurred("alamat") {
		t.Fatalf("unknown fields must be ignored")
	}
	if _, ok := s.Values()["alamat"]; ok {
		t.Fatalf("unknown field leaked into values")
	}
}

func TestSession_ValidityFlipsWithAnyField(t *testing.T) {
	s := filledSession(t)
	if !s.Valid() {
		t.Fatalf("expected valid form, errors: %v", registration.Validate(s.Values()))
	}

	s.OnValueChanged(registration.FieldPassphrase, strings.Repeat("k", 99))
	if s.Valid() {
		t.Fatalf("short passphrase must invalidate the form")
	}
	if _, err := s.OnSubmitted(); !errors.Is(err, registration.ErrFormInvalid) {
		t.Fatalf("expected ErrFormInvalid, got %v", err)
	}
	if s.Stage() != registration.StageEditing {
		t.Fatalf("invalid submit must stay in editing")
	}

	s.OnValueChanged(registration.FieldPassphrase, strings.Repeat("k", 100))
	if !s.Valid() {
		t.Fatalf("expected validity restored")
	}
}

func TestSession_InvalidSubmitTouchesEveryField(t *testing.T) {
	s := registration.NewSession()
	s.OnValueChanged(registration.FieldFatherName, "Budi")

	if _, err := s.OnSubmitted(); !errors.Is(err, registration.ErrFormInvalid) {
		t.Fatalf("expected ErrFormInvalid, got %v", err)
	}
	for _, field := range registration.Fields() {
		if !s.IsTouched(field) {
			t.Fatalf("%s should be touched after a failed submit", field)
		}
	}
	if got := s.VisibleError(registration.FieldFatherName); got != "" {
		t.Fatalf("filled field should be clean, got %q", got)
	}
	if got := s.VisibleError(registration.FieldMotherName); got != registration.MsgMotherNameRequired {
		t.Fatalf("empty field should show required, got %q", got)
	}
}

func TestSession_SubmitAndDismiss(t *testing.T) {
	s := filledSession(t)

	summary, err := s.OnSubmitted()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.Stage() != registration.StageConfirmed {
		t.Fatalf("expected confirmed stage, got %s", s.Stage())
	}
	if got, _ := summary.Value(registration.FieldNIK); got != "1234****3456" {
		t.Fatalf("masked NIK: got %q", got)
	}
	if _, ok := summary.Value(registration.FieldPassphrase); ok {
		t.Fatalf("passphrase must not appear in the summary")
	}

	if _, err := s.OnSubmitted(); !errors.Is(err, registration.ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
	if s.OnValueChanged(registration.FieldOwnName, "X") {
		t.Fatalf("changes must be refused while confirmed")
	}

	if err := s.Dismiss(); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if s.Stage() != registration.StageEditing {
		t.Fatalf("expected editing after dismiss")
	}
	if err := s.Dismiss(); !errors.Is(err, registration.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if got := s.Value(registration.FieldOwnName); got != "Dewi" {
		t.Fatalf("dismiss must keep values, got %q", got)
	}
}

func TestSession_Reset(t *testing.T) {
	s := filledSession(t)
	s.SetPassphraseVisible(true)
	s.Reset()

	if diff := cmp.Diff(registration.NewValues(), s.Values()); diff != "" {
		t.Fatalf("values not cleared (-want +got):\n%s", diff)
	}
	if len(s.Touched()) != 0 || len(s.Errors()) != 0 || s.PassphraseVisible() {
		t.Fatalf("reset left state behind")
	}
}

func TestSession_StrengthFollowsPassphrase(t *testing.T) {
	s := registration.NewSession()
	if s.Strength().Level != 0 {
		t.Fatalf("expected tier 0 for empty passphrase")
	}
	s.OnValueChanged(registration.FieldPassphrase, strings.Repeat("p", 150))
	if got := s.Strength(); got.Level != 4 || got.Label != "Kuat" {
		t.Fatalf("unexpected strength %+v", got)
	}
}

func TestSession_ReadsAreCopies(t *testing.T) {
	s := registration.NewSession()
	values := s.Values()
	values[registration.FieldOwnName] = "mutated"
	if s.Value(registration.FieldOwnName) != "" {
		t.Fatalf("Values must return a copy")
	}
}

func filledSession(t *testing.T) *registration.Session {
	t.Helper()
	s := registration.NewSession()
	for field, value := range validValues() {
		if !s.OnValueChanged(field, value) {
			t.Fatalf("change %s rejected", field)
		}
		s.OnBlurred(field)
	}
	return s
}
