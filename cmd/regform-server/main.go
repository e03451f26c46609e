package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/internal/server"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	themeConfig, err := render.ResolveTheme(render.DefaultThemeManifest(), cfg.ThemeVariant)
	if err != nil {
		return fmt.Errorf("resolving theme: %w", err)
	}
	templates, err := gotemplate.NewGoTemplate(
		gotemplate.WithBaseDir(cfg.TemplateDir),
		gotemplate.WithFS(vanilla.TemplatesFS()),
		gotemplate.WithExtension(vanilla.TemplateExtension),
		gotemplate.WithPreHook(func(ctx *gotemplatepkg.HookContext) error {
			logger.Debug("rendering template", "template", ctx.TemplateName)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating template engine: %w", err)
	}
	if cfg.TemplateDir != "" {
		slog.Info("template overrides enabled", "dir", cfg.TemplateDir)
	}

	renderer, err := vanilla.New(
		vanilla.WithTemplateRenderer(templates),
		vanilla.WithTheme(themeConfig),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	gen := orchestrator.New(orchestrator.WithRegistry(registry))

	form, err := gen.Form(context.Background())
	if err != nil {
		return err
	}
	slog.Info("registration form loaded", "fields", len(form.Fields), "locale", cfg.Locale, "theme", cfg.ThemeVariant)

	app := server.New(form, renderer,
		server.WithLogger(logger),
		server.WithLocale(cfg.Locale),
		server.WithTheme(themeConfig),
		server.WithTrustedOrigins(cfg.TrustedOrigins),
		server.WithSessionManager(server.NewSessionManager(cfg.SessionLifetime, !cfg.IsDevelopment())),
	)
	handler, err := app.Handler()
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
