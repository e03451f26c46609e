package render_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestDefaultCatalog_Locales(t *testing.T) {
	catalog := render.DefaultCatalog()
	if diff := cmp.Diff([]string{"en", "id"}, catalog.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		locale string
		key    string
		want   string
	}{
		{"id", "form.submit.ready", "Daftar Sekarang"},
		{"id", "form.submit.incomplete", "Lengkapi Semua Data"},
		{"id", "confirmation.title", "Pendaftaran Berhasil!"},
		{"en", "confirmation.close", "Close"},
		{"en-US", "form.title", "Welcome"},
		{"fr", "form.title", "Selamat Datang"},
	}
	for _, tc := range cases {
		got, err := catalog.Translate(tc.locale, tc.key)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: want %q, got %q", tc.locale, tc.key, tc.want, got)
		}
	}

	if _, err := catalog.Translate("id", "nope"); !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
	if !catalog.HasLocale("en_GB") || catalog.HasLocale("fr") {
		t.Fatalf("HasLocale mismatch")
	}
}

func TestLoadCatalog_FlattensAndFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/jv.yml": {Data: []byte("form:\n  counter: \"%d/%d\"\n  title: Sugeng Rawuh\n")},
		"locales/notes.txt": {Data: []byte("ignored")},
	}
	catalog, err := render.LoadCatalog(fsys, "jv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := catalog.Translate("jv", "form.counter", 3, 16)
	if err != nil || got != "3/16" {
		t.Fatalf("formatted translation: got %q, %v", got, err)
	}

	if _, err := render.LoadCatalog(fstest.MapFS{"bad.yaml": {Data: []byte("form: [")}}, "id"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLocalizeFormModel(t *testing.T) {
	form := model.FormModel{
		Title: "Selamat Datang",
		Fields: []model.Field{
			{
				Name:        "nik",
				Label:       "NIK",
				Placeholder: "16 digit angka",
				Metadata:    map[string]string{model.MetadataHint: "Nomor Induk Kependudukan"},
			},
			{Name: "namaIbu", Label: "Nama Ibu"},
		},
	}

	localized := render.LocalizeFormModel(form, render.RenderOptions{
		Translator: stubTranslator{
			"form.title":        "Welcome",
			"fields.nik.label":  "National ID",
			"fields.nik.hint":   "Population number",
			"fields.nik.unused": "x",
		},
	})

	if localized.Title != "Welcome" {
		t.Fatalf("title: got %q", localized.Title)
	}
	nik := localized.Fields[0]
	if nik.Label != "National ID" || nik.Placeholder != "16 digit angka" || nik.Metadata[model.MetadataHint] != "Population number" {
		t.Fatalf("nik not localized: %+v", nik)
	}
	if localized.Fields[1].Label != "Nama Ibu" {
		t.Fatalf("missing key should keep the model label, got %q", localized.Fields[1].Label)
	}
	if form.Fields[0].Metadata[model.MetadataHint] != "Nomor Induk Kependudukan" {
		t.Fatalf("input model mutated")
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(render.RenderOptions{Locale: "en"}, render.TemplateI18nConfig{FuncName: "t"})

	tr, ok := funcs["t"].(func(string, ...any) string)
	if !ok {
		t.Fatalf("expected translate helper under custom name")
	}
	if got := tr("form.submit.ready"); got != "Register now" {
		t.Fatalf("translate: got %q", got)
	}
	if got := tr("missing.key"); got != "missing.key" {
		t.Fatalf("missing key should fall back to the key, got %q", got)
	}

	locale := funcs["current_locale"].(func() string)
	if locale() != "en" {
		t.Fatalf("current_locale: got %q", locale())
	}
}

func TestRenderOptions_Textf(t *testing.T) {
	id := render.RenderOptions{Locale: "id"}
	if got := id.Textf("passphrase.remaining", "%d left", 12); got != "Kurang 12 karakter lagi" {
		t.Fatalf("id: got %q", got)
	}
	en := render.RenderOptions{Locale: "en"}
	if got := en.Textf("passphrase.remaining", "%d left", 1); got != "1 more characters needed" {
		t.Fatalf("en: got %q", got)
	}
	missing := render.RenderOptions{Translator: stubTranslator{}}
	if got := missing.Textf("passphrase.remaining", "%d left", 3); got != "3 left" {
		t.Fatalf("fallback: got %q", got)
	}
}
