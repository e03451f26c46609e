package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regform/pkg/model"
)

// DefaultLocale is used when callers do not select a locale.
const DefaultLocale = "id"

var (
	// ErrMissingTranslator is reported to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingTranslation is returned by Catalog when a key is unknown in
	// the requested locale and the fallback locale.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// Translator resolves a message key for a locale. Extra args are applied with
// fmt.Sprintf when present.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to render when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
	defaultCatalogErr  error
)

// Catalog is a Translator backed by YAML locale files. Each file is named
// after its locale (id.yaml, en.yaml) and holds nested maps that flatten into
// dotted keys.
type Catalog struct {
	fallback string
	messages map[string]map[string]string
}

// DefaultCatalog returns the embedded catalog (id and en).
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(embeddedLocales, DefaultLocale)
	})
	if defaultCatalogErr != nil {
		panic(fmt.Sprintf("render: embedded locales: %v", defaultCatalogErr))
	}
	return defaultCatalog
}

// LoadCatalog reads every *.yaml / *.yml file of fsys. fallback names the
// locale consulted when a key is missing from the requested one.
func LoadCatalog(fsys fs.FS, fallback string) (*Catalog, error) {
	catalog := &Catalog{
		fallback: normalizeLocale(fallback),
		messages: make(map[string]map[string]string),
	}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := path.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("render: read %s: %w", name, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("render: parse %s: %w", name, err)
		}

		locale := normalizeLocale(strings.TrimSuffix(path.Base(name), ext))
		if locale == "" {
			return fmt.Errorf("render: file %s has no locale name", name)
		}
		messages := catalog.messages[locale]
		if messages == nil {
			messages = make(map[string]string)
			catalog.messages[locale] = messages
		}
		flattenMessages("", raw, messages)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Locales returns the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// HasLocale reports whether locale (or its base language) is loaded.
func (c *Catalog) HasLocale(locale string) bool {
	for _, candidate := range localeCandidates(locale) {
		if _, ok := c.messages[candidate]; ok {
			return true
		}
	}
	return false
}

// Translate implements Translator. Lookup order: exact locale, base language
// ("en" for "en-US"), fallback locale.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	candidates := append(localeCandidates(locale), c.fallback)
	for _, candidate := range candidates {
		if msg, ok := c.messages[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

// LocalizeFormModel returns a copy of form with title, subtitle, labels,
// placeholders and hints translated through fields.<name>.* keys. Keys that
// cannot be translated keep the model's text.
func LocalizeFormModel(form model.FormModel, opts RenderOptions) model.FormModel {
	tr := opts.Translator
	if tr == nil {
		tr = DefaultCatalog()
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	locale := opts.Locale

	out := form
	out.Title = localizeText(locale, "form.title", form.Title, tr, onMissing)
	out.Subtitle = localizeText(locale, "form.subtitle", form.Subtitle, tr, onMissing)
	out.Fields = make([]model.Field, len(form.Fields))
	for i, field := range form.Fields {
		prefix := "fields." + field.Name + "."
		field.Label = localizeText(locale, prefix+"label", field.Label, tr, onMissing)
		field.Placeholder = localizeText(locale, prefix+"placeholder", field.Placeholder, tr, onMissing)
		if hint := field.Metadata[model.MetadataHint]; hint != "" {
			metadata := make(map[string]string, len(field.Metadata))
			for k, v := range field.Metadata {
				metadata[k] = v
			}
			metadata[model.MetadataHint] = localizeText(locale, prefix+"hint", hint, tr, onMissing)
			field.Metadata = metadata
		}
		out.Fields[i] = field
	}
	return out
}

// Text translates a single chrome key using the options' translator.
func (o RenderOptions) Text(key, fallback string) string {
	tr := o.Translator
	if tr == nil {
		tr = DefaultCatalog()
	}
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(o.Locale, key, fallback, tr, onMissing)
}

// Textf translates key with fmt-style args. fallback is formatted with the
// same args when the key is missing.
func (o RenderOptions) Textf(key, fallback string, args ...any) string {
	tr := o.Translator
	if tr == nil {
		tr = DefaultCatalog()
	}
	if msg, err := tr.Translate(o.Locale, key, args...); err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	if o.OnMissing != nil {
		return o.OnMissing(o.Locale, key, args, ErrMissingTranslation)
	}
	return fmt.Sprintf(fallback, args...)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		return fallbackOrKey(fallback, key)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	return fallbackOrKey(fallback, key)
}

// localizeText keeps empty model text empty unless the translator knows the
// key, so missing keys never leak into the page.
func localizeText(locale, key, current string, t Translator, onMissing MissingTranslationHandler) string {
	if strings.TrimSpace(current) != "" {
		return translate(locale, key, current, t, onMissing)
	}
	if t == nil {
		return current
	}
	if msg, err := t.Translate(locale, key); err == nil {
		return msg
	}
	return current
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if s, ok := m["default"].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return key
}

func fallbackOrKey(fallback, key string) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func flattenMessages(prefix string, node any, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			flattenMessages(joinKey(prefix, key), child, out)
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(v)
		}
	}
}

func joinKey(prefix, key string) string {
	key = strings.TrimSpace(key)
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return nil
	}
	out := []string{locale}
	if base, _, found := strings.Cut(locale, "-"); found && base != "" {
		out = append(out, base)
	}
	return out
}
