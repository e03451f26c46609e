package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
	"github.com/goliatone/go-regform/pkg/schema"
)

const defaultRendererName = "vanilla"

// Transformer adjusts the form model after it is loaded and before any
// renderer sees it (relabelling, dropping hints).
type Transformer func(ctx context.Context, form *model.FormModel) error

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithDocument replaces the embedded OpenAPI document.
func WithDocument(data []byte) Option {
	return func(o *Orchestrator) {
		o.document = data
	}
}

// WithRegistry supplies a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithDefaultRenderer picks the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.defaultRenderer = name
		}
	}
}

// WithTransformer registers a form transformer.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator loads the form once and renders it on demand. The vanilla
// renderer is registered when no registry is supplied.
type Orchestrator struct {
	document        []byte
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	initialiseErr   error

	formOnce sync.Once
	form     model.FormModel
	formErr  error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: configure vanilla renderer: %w", err)
			return o
		}
		o.registry.MustRegister(renderer)
	}
	return o
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// RenderOptions carries the session, locale, theme and hidden fields.
	RenderOptions render.RenderOptions
}

// Form returns the loaded and transformed form model. The document is parsed
// on first use; later calls return the same result.
func (o *Orchestrator) Form(ctx context.Context) (model.FormModel, error) {
	o.formOnce.Do(func() {
		var form model.FormModel
		if o.document != nil {
			form, o.formErr = schema.Load(ctx, o.document)
		} else {
			form, o.formErr = schema.Default(ctx)
		}
		if o.formErr != nil {
			o.formErr = fmt.Errorf("orchestrator: load form: %w", o.formErr)
			return
		}
		if o.transformer != nil {
			if err := o.transformer(ctx, &form); err != nil {
				o.formErr = fmt.Errorf("orchestrator: transform form: %w", err)
				return
			}
		}
		o.form = form
	})
	return o.form, o.formErr
}

// Renderer resolves a renderer by name, falling back to the default for "".
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

// Generate loads the form and renders it with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}
	form, err := o.Form(ctx)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}
