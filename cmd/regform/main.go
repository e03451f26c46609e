package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
)

func main() {
	format := flag.String("output", "json", "submitted data format: json, form or pretty")
	locale := flag.String("locale", render.DefaultLocale, "prompt language (id or en)")
	output := flag.String("file", "", "write submitted data to this file (stdout if empty)")
	schemaPath := flag.String("schema", "", "OpenAPI document describing the form (embedded if empty)")
	flag.Parse()

	outputFormat, err := tui.ParseOutputFormat(*format)
	if err != nil {
		log.Fatalf("Invalid output format: %v", err)
	}
	if !render.DefaultCatalog().HasLocale(*locale) {
		log.Fatalf("Unsupported locale: %q", *locale)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderer, err := tui.New(
		tui.WithOutputFormat(outputFormat),
		tui.WithPromptDriver(tui.NewSurveyDriver(os.Stderr)),
	)
	if err != nil {
		log.Fatalf("Failed to configure renderer: %v", err)
	}

	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	options := []orchestrator.Option{orchestrator.WithRegistry(registry)}
	if *schemaPath != "" {
		doc, err := os.ReadFile(*schemaPath)
		if err != nil {
			log.Fatalf("Failed to read schema: %v", err)
		}
		options = append(options, orchestrator.WithDocument(doc))
	}
	gen := orchestrator.New(options...)

	data, err := gen.Generate(ctx, orchestrator.Request{
		Renderer: renderer.Name(),
		RenderOptions: render.RenderOptions{
			Session: registration.NewSession(),
			Locale:  *locale,
		},
	})
	if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("Failed to collect registration: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0o600); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Registration written to %s\n", *output)
		return
	}
	fmt.Println(string(data))
}
