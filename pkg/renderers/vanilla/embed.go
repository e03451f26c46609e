package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName    = "regform.css"
	RuntimeScriptName = "regform.js"

	// TemplateExtension is the suffix of the bundled template files.
	TemplateExtension = ".tmpl"

	formTemplate         = "form"
	confirmationTemplate = "confirmation"
)

// TemplatesFS exposes the embedded templates rooted at the templates
// directory (form.tmpl, confirmation.tmpl).
func TemplatesFS() fs.FS {
	return mustSub(embeddedTemplates, "templates")
}

// AssetsFS exposes the stylesheet and the progressive-enhancement script so
// callers can serve them over HTTP.
func AssetsFS() fs.FS {
	return mustSub(embeddedAssets, "assets")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		// Only reachable with an invalid literal directory name.
		panic(err)
	}
	return sub
}
