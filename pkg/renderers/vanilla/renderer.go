package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	rendertemplate "github.com/goliatone/go-regform/pkg/render/template"
	"github.com/goliatone/go-regform/pkg/render/template/gotemplate"
)

// Actions are the URLs the rendered pages post to.
type Actions struct {
	Submit  string
	Events  string
	Dismiss string
	Assets  string
}

// DefaultActions match the routes of the bundled HTTP server.
func DefaultActions() Actions {
	return Actions{
		Submit:  "/submit",
		Events:  "/events",
		Dismiss: "/dismiss",
		Assets:  "/assets",
	}
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	actions          Actions
	icons            map[string]string
	classes          map[ChromeClass]string
	theme            *render.ThemeConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithActions overrides the post-back URLs. Empty members keep the default.
func WithActions(actions Actions) Option {
	return func(cfg *config) {
		if actions.Submit != "" {
			cfg.actions.Submit = actions.Submit
		}
		if actions.Events != "" {
			cfg.actions.Events = actions.Events
		}
		if actions.Dismiss != "" {
			cfg.actions.Dismiss = actions.Dismiss
		}
		if actions.Assets != "" {
			cfg.actions.Assets = strings.TrimRight(actions.Assets, "/")
		}
	}
}

// WithIcons overrides decorative SVG icons by name. Markup is sanitised.
func WithIcons(icons map[string]string) Option {
	return func(cfg *config) {
		cfg.icons = icons
	}
}

// WithChromeClasses appends classes to the built-in styling hooks.
func WithChromeClasses(classes map[ChromeClass]string) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithTheme sets the theme used when RenderOptions.Theme is nil.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// Renderer renders the registration form and its confirmation view as HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	actions   Actions
	icons     map[string]string
	classes   map[string]any
	theme     *render.ThemeConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		actions:    DefaultActions(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(TemplateExtension),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	theme := cfg.theme
	if theme == nil {
		resolved, err := render.ResolveTheme(render.DefaultThemeManifest(), "dark")
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: resolve theme: %w", err)
		}
		theme = resolved
	}

	return &Renderer{
		templates: renderer,
		actions:   cfg.actions,
		icons:     render.Icons(cfg.icons),
		classes:   chromeClasses(cfg.classes),
		theme:     theme,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form page, or the confirmation page when the session is
// confirmed.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Theme == nil {
		opts.Theme = r.theme
	}

	view := r.baseView(opts)
	localized := render.LocalizeFormModel(form, opts)

	name := formTemplate
	if opts.SessionOrEmpty().Stage() == registration.StageConfirmed {
		name = confirmationTemplate
		r.confirmationView(view, localized, opts)
	} else {
		r.formView(view, localized, opts)
	}

	result, err := r.templates.RenderTemplate(name, view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
