package render

import (
	"fmt"
	"strings"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
}

// TemplateI18nFuncs returns helpers bound to the options' locale and
// translator, suitable for injecting into template data:
//
//	{{ translate("form.submit.ready") }}
//	{{ translate("fields.nik.counter", 12) }}
//
// Extra params are formatted with fmt.Sprintf when the message contains
// verbs. Missing keys go through opts.OnMissing.
func TemplateI18nFuncs(opts RenderOptions, cfg TemplateI18nConfig) map[string]any {
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}

	locale := opts.Locale
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}

	return map[string]any{
		translateName: func(key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			msg := opts.Text(key, "")
			if len(params) > 0 && strings.Contains(msg, "%") {
				return fmt.Sprintf(msg, params...)
			}
			return msg
		},
		"current_locale": func() string {
			return locale
		},
	}
}
