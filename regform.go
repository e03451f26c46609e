// Package regform renders the family registration form for browsers and
// terminals. The subpackages hold the session state machine (registration),
// the OpenAPI loader (schema) and the renderers; this package re-exports the
// common entry points.
package regform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
	"github.com/goliatone/go-regform/pkg/schema"
)

// RenderOptions describes per-request session, locale and theme data.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewSession starts an empty registration session.
func NewSession() *registration.Session {
	return registration.NewSession()
}

// LoadForm returns the form model built from the embedded OpenAPI document.
func LoadForm(ctx context.Context) (model.FormModel, error) {
	return schema.Default(ctx)
}

// GenerateHTML renders the registration page for session using the vanilla
// renderer. A nil session renders an empty form.
func GenerateHTML(ctx context.Context, session *registration.Session, locale string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		RenderOptions: render.RenderOptions{
			Session: session,
			Locale:  locale,
		},
	})
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and browser script served next to the page.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(regform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
