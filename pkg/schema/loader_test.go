package schema_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/schema"
)

func TestDefault_FieldOrderMatchesRegistration(t *testing.T) {
	form, err := schema.Default(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := make([]string, 0, len(registration.Fields()))
	for _, field := range registration.Fields() {
		want = append(want, field.String())
	}
	if diff := cmp.Diff(want, form.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if form.ID != "registration" || form.Title != "Selamat Datang" {
		t.Fatalf("unexpected form header: %+v", form)
	}
}

func TestDefault_FieldDetails(t *testing.T) {
	form, err := schema.Default(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	nik, ok := form.Field("nik")
	if !ok {
		t.Fatalf("nik missing")
	}
	want := model.Field{
		Name:        "nik",
		Type:        model.FieldTypeString,
		Required:    true,
		Label:       "NIK",
		Placeholder: "16 digit angka",
		Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleRequired},
			{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "16"}},
			{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "16"}},
			{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "^[0-9]{16}$"}},
		},
		Metadata: map[string]string{
			model.MetadataHint:      "Nomor Induk Kependudukan",
			model.MetadataInputMode: "numeric",
			model.MetadataCounter:   "16",
		},
	}
	if diff := cmp.Diff(want, nik); diff != "" {
		t.Fatalf("nik mismatch (-want +got):\n%s", diff)
	}

	pass, _ := form.Field("kataSandi")
	if pass.InputType() != "password" {
		t.Fatalf("passphrase input type: got %q", pass.InputType())
	}
	rule, ok := pass.Rule(model.ValidationRuleMinLength)
	if !ok || rule.Params["value"] != "100" {
		t.Fatalf("passphrase minLength: got %+v", rule)
	}

	email, _ := form.Field("email")
	if email.InputType() != "email" {
		t.Fatalf("email input type: got %q", email.InputType())
	}

	adik, _ := form.Field("namaAdik")
	kakak, _ := form.Field("namaKakak")
	if adik.Metadata[model.MetadataRow] != "siblings" || kakak.Metadata[model.MetadataRow] != "siblings" {
		t.Fatalf("sibling fields should share a row")
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"component": "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\ncomponents:\n  schemas:\n    Other: {type: object}\n",
		"unknown": `openapi: 3.0.3
info: {title: x, version: "1"}
paths: {}
components:
  schemas:
    Registration:
      type: object
      properties:
        alamat:
          type: string
          x-formgen: {order: 1}
`,
		"order": `openapi: 3.0.3
info: {title: x, version: "1"}
paths: {}
components:
  schemas:
    Registration:
      type: object
      properties:
        namaIbu:
          type: string
`,
		"duplicate": `openapi: 3.0.3
info: {title: x, version: "1"}
paths: {}
components:
  schemas:
    Registration:
      type: object
      properties:
        namaIbu:
          type: string
          x-formgen: {order: 1}
        namaBapak:
          type: string
          x-formgen: {order: 1}
`,
	}
	for name, doc := range cases {
		_, err := schema.Load(context.Background(), []byte(doc))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !strings.HasPrefix(err.Error(), "schema:") {
			t.Fatalf("%s: expected schema-prefixed error, got %v", name, err)
		}
	}
}

func TestLoad_RejectsMissingField(t *testing.T) {
	// Drop the kataSandi property block from the embedded document.
	var kept []string
	blockIndent := -1
	for _, line := range strings.Split(string(schema.Document()), "\n") {
		trimmed := strings.TrimSpace(line)
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if trimmed == "kataSandi:" {
			blockIndent = indent
			continue
		}
		if blockIndent >= 0 {
			if trimmed == "" || indent > blockIndent {
				continue
			}
			blockIndent = -1
		}
		kept = append(kept, line)
	}
	doc := strings.Join(kept, "\n")
	if strings.Contains(doc, "kataSandi:") {
		t.Fatalf("fixture still declares the passphrase")
	}

	_, err := schema.Load(context.Background(), []byte(doc))
	if err == nil || err.Error() != `schema: missing field "kataSandi"` {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := schema.Load(ctx, schema.Document()); err == nil {
		t.Fatalf("expected context error")
	}
}
