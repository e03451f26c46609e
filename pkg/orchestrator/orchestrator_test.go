package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/schema"
)

type recordingRenderer struct {
	form model.FormModel
}

func (r *recordingRenderer) Name() string        { return "recording" }
func (r *recordingRenderer) ContentType() string { return "text/plain" }
func (r *recordingRenderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	r.form = form
	return []byte(opts.Locale), nil
}

func TestGenerate_DefaultVanilla(t *testing.T) {
	out, err := orchestrator.New().Generate(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Selamat Datang") {
		t.Fatalf("expected the vanilla form page")
	}
}

func TestGenerate_TransformerAndRegistry(t *testing.T) {
	recorder := &recordingRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(recorder)

	calls := 0
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer("recording"),
		orchestrator.WithDocument(schema.Document()),
		orchestrator.WithTransformer(func(_ context.Context, form *model.FormModel) error {
			calls++
			form.Title = "Formulir Keluarga"
			return nil
		}),
	)

	for i := 0; i < 2; i++ {
		out, err := orch.Generate(context.Background(), orchestrator.Request{
			RenderOptions: render.RenderOptions{Locale: "en"},
		})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if string(out) != "en" {
			t.Fatalf("render options not forwarded: %q", out)
		}
	}
	if calls != 1 {
		t.Fatalf("form should be loaded once, transformer ran %d times", calls)
	}
	if recorder.form.Title != "Formulir Keluarga" {
		t.Fatalf("transformer result not rendered: %q", recorder.form.Title)
	}
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := orchestrator.New().Generate(ctx, orchestrator.Request{Renderer: "preact"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}

	broken := orchestrator.New(orchestrator.WithDocument([]byte("openapi: [")))
	if _, err := broken.Generate(ctx, orchestrator.Request{}); err == nil || !strings.HasPrefix(err.Error(), "orchestrator:") {
		t.Fatalf("expected load error, got %v", err)
	}

	failing := orchestrator.New(orchestrator.WithTransformer(func(context.Context, *model.FormModel) error {
		return errors.New("boom")
	}))
	if _, err := failing.Form(ctx); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := orchestrator.New().Generate(canceled, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
