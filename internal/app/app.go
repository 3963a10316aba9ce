package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/mbtitools/internal/config"
	"github.com/specialistvlad/mbtitools/internal/ctxlog"
	"github.com/specialistvlad/mbtitools/internal/devserver"
)

// ErrFindings is wrapped by the errors of passes that completed but found
// something to report, such as unused stylesheets or files needing a fix.
var ErrFindings = errors.New("findings reported")

const rule = "============================================================"

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model

	in        io.Reader
	inspector devserver.PortInspector
	runner    devserver.Runner
}

// Option customizes an App.
type Option func(*App)

// WithInput sets the reader prompts are answered from.
func WithInput(r io.Reader) Option {
	return func(a *App) { a.in = r }
}

// WithPortInspector replaces the operating system port inspector.
func WithPortInspector(p devserver.PortInspector) Option {
	return func(a *App) { a.inspector = p }
}

// WithRunner replaces the child process runner used by Dev.
func WithRunner(r devserver.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. Progress lines go to
// outW and logs to errW.
func NewApp(ctx context.Context, outW, errW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded into unified model.", "origin", model.Origin, "root", cfg.Root)

	a := &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		model:     model,
		in:        os.Stdin,
		inspector: devserver.SystemInspector{},
		runner: devserver.ExecRunner{
			Dir:    cfg.Root,
			Stdin:  os.Stdin,
			Stdout: outW,
			Stderr: errW,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Model returns the loaded configuration. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// context attaches the app logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// path resolves a configured path against the project root.
func (a *App) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.config.Root, filepath.FromSlash(p))
}

// rel shortens p for display when it lies under the project root.
func (a *App) rel(p string) string {
	r, err := filepath.Rel(a.config.Root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(r)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.outW, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.outW, args...)
}

func (a *App) banner(title string) {
	a.println(rule)
	a.println(title)
	a.println(rule)
}
