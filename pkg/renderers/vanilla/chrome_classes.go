package vanilla

// ChromeClass identifies a styling hook of the built-in templates.
type ChromeClass string

const (
	ClassPage     ChromeClass = "page"
	ClassCard     ChromeClass = "card"
	ClassHeader   ChromeClass = "header"
	ClassForm     ChromeClass = "form"
	ClassRow      ChromeClass = "row"
	ClassField    ChromeClass = "field"
	ClassError    ChromeClass = "error"
	ClassErrors   ChromeClass = "errors"
	ClassStrength ChromeClass = "strength"
	ClassActions  ChromeClass = "actions"
	ClassSubmit   ChromeClass = "submit"
	ClassModal    ChromeClass = "modal"
	ClassSummary  ChromeClass = "summary"
)

// DefaultChromeClasses are the class lists regform.css targets.
func DefaultChromeClasses() map[ChromeClass]string {
	return map[ChromeClass]string{
		ClassPage:     "rf-page",
		ClassCard:     "rf-card",
		ClassHeader:   "rf-header",
		ClassForm:     "rf-form",
		ClassRow:      "rf-row",
		ClassField:    "rf-field",
		ClassError:    "rf-error",
		ClassErrors:   "rf-errors",
		ClassStrength: "rf-strength",
		ClassActions:  "rf-actions",
		ClassSubmit:   "rf-submit",
		ClassModal:    "rf-modal",
		ClassSummary:  "rf-summary",
	}
}

// chromeClasses merges overrides into the defaults. Overrides append to the
// default list so the stylesheet and script hooks keep working.
func chromeClasses(overrides map[ChromeClass]string) map[string]any {
	out := make(map[string]any, len(overrides)+13)
	for key, value := range DefaultChromeClasses() {
		if extra := sanitizeClassList(overrides[key]); extra != "" {
			value += " " + extra
		}
		out[string(key)] = value
	}
	return out
}
