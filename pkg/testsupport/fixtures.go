// Package testsupport holds fixtures shared by renderer and server tests.
package testsupport

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/schema"
)

// ValidValues returns a set of values that passes every registration rule.
func ValidValues() registration.Values {
	return registration.Values{
		registration.FieldFatherName:         "Budi Santoso",
		registration.FieldMotherName:         "Siti Aminah",
		registration.FieldYoungerSiblingName: "Rina",
		registration.FieldOlderSiblingName:   "Agus",
		registration.FieldNIK:                "3171234567890123",
		registration.FieldEmail:              "budi@example.com",
		registration.FieldOwnName:            "Dewi",
		registration.FieldPassphrase:         strings.Repeat("gunung-", 15),
	}
}

// MustLoadForm loads the embedded registration form.
func MustLoadForm(t *testing.T) model.FormModel {
	t.Helper()

	form, err := schema.Default(context.Background())
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// FilledSession returns an editing session holding ValidValues.
func FilledSession(t *testing.T) *registration.Session {
	t.Helper()

	s := registration.NewSession()
	for field, value := range ValidValues() {
		if !s.OnValueChanged(field, value) {
			t.Fatalf("value for %s rejected", field)
		}
	}
	return s
}

// ConfirmedSession returns a session that has been submitted successfully.
func ConfirmedSession(t *testing.T) *registration.Session {
	t.Helper()

	s := FilledSession(t)
	if _, err := s.OnSubmitted(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return s
}
