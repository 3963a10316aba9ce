package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/mbtitools/internal/app"
	"github.com/specialistvlad/mbtitools/internal/hcl"
	"github.com/spf13/cobra"
)

// DefaultConfigFile is picked up from the project root when --config is not given.
const DefaultConfigFile = "mbtitools.hcl"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config    string
	dir       string
	logLevel  string
	logFormat string
}

// runner builds the App for the command being executed.
type runner struct {
	outW, errW io.Writer
	opts       []app.Option
	flags      globalFlags

	// started is set once flags and arguments were accepted.
	started bool
}

// Execute builds the command tree and runs it with args. Usage and
// configuration problems come back as *ExitError with code 2; failed passes
// as *ExitError with code 1 or as a plain error.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, opts ...app.Option) error {
	r := &runner{outW: outW, errW: errW, opts: opts}
	root := r.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if !r.started {
		return usageError(err)
	}
	if errors.Is(err, app.ErrFindings) {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return err
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mbtitools",
		Short: "Maintenance passes for the MBTI content project",
		Long: `mbtitools splits the MBTI type descriptions into per-type modules and keeps
the front-end tree tidy: unused stylesheets, conflicting class names,
indentation of generated files and stale dev-server instances.

Every path in the configuration is relative to the project root (--dir).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(r.outW)
	root.SetErr(r.errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&r.flags.config, "config", "c", "", "path to the HCL config file (default: "+DefaultConfigFile+" in the project root, if present)")
	pf.StringVarP(&r.flags.dir, "dir", "C", ".", "project root all config paths are relative to")
	pf.StringVar(&r.flags.logLevel, "log-level", "info", "logging level: debug, info, warn or error")
	pf.StringVar(&r.flags.logFormat, "log-format", "text", "log output format: text or json")

	root.AddCommand(
		r.extractCommand(),
		r.verifyCommand(),
		r.cssAuditCommand(),
		r.renameClassesCommand(),
		r.indentCommand(),
		r.devCommand(),
	)
	return root
}

// newApp validates the global flags and loads the configuration.
func (r *runner) newApp(ctx context.Context) (*app.App, error) {
	r.started = true
	configPath := r.flags.config
	if configPath == "" {
		candidate := filepath.Join(r.flags.dir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			configPath = candidate
		}
	}

	cfg, err := app.NewConfig(app.Config{
		Root:       r.flags.dir,
		ConfigPath: configPath,
		LogFormat:  r.flags.logFormat,
		LogLevel:   r.flags.logLevel,
	})
	if err != nil {
		return nil, usageError(err)
	}

	a, err := app.NewApp(ctx, r.outW, r.errW, cfg, hcl.NewLoader(), r.opts...)
	if err != nil {
		return nil, usageError(err)
	}
	return a, nil
}
