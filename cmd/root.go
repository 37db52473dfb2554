// Package cmd provides the CLI commands for permalink-open.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
	"github.com/MyCarrier-DevOps/permalink-open/internal/usecases"
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Workspace reports the active repository and whether a git context exists.
type Workspace interface {
	domain.RepositoryStateProvider
	domain.VersionControlProbe
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance. It is called after flags have
	// been applied to the environment.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func() (*AppConfig, error)

	// WorkspaceFactory creates a Workspace for the given directory.
	WorkspaceFactory func(dir string, cfg *AppConfig, log Logger) (Workspace, error)

	// OpenerFactory creates the Opener that resolves and acts on links.
	OpenerFactory func(ws Workspace, cfg *AppConfig, log Logger) domain.Opener

	// Stdout is the writer for standard output (opened locations, annotated views).
	Stdout io.Writer

	// Stderr is the writer for standard error (diagnostics, warnings, errors).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// Hosts lists enterprise hosts recognized in addition to github.com.
	Hosts []string

	// Remote is the remote that supplies the repository owner and name.
	Remote string

	// Editor is the editor command line.
	Editor string

	// ContextLines is the number of lines shown around a linked range.
	ContextLines int
}

// errDiagnosticShown signals that a diagnostic was shown; the process exits
// non-zero without printing anything further.
var errDiagnosticShown = errors.New("diagnostic shown")

// options holds command-line flags.
type options struct {
	repoDir string
	verbose bool
}

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for permalink-open.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "permalink-open [url]",
		Short: "Open the file a GitHub permalink points at in the local repository",
		Long: `permalink-open resolves a GitHub permalink against the local repository.

The link is read from the clipboard unless one is passed as an argument.
When the working copy still matches the linked revision, the file is opened at
the linked line. When it has changed, a blame view of the current branch is shown
around the linked lines instead. Anything else is reported as a one-line message.

Examples:
  # Open the permalink currently in the clipboard
  permalink-open

  # Open an explicit link from another repository directory
  permalink-open -C ~/src/widgets https://github.com/acme/widgets/blob/main/src/foo.go#L10

  # Ask whether the command applies to the current directory
  permalink-open visible`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, args, deps, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.repoDir, "repo", "C", ".",
		"Directory inside the repository to resolve against")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose/debug logging")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "open [url]",
			Short: "Resolve a permalink and open it (default command)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOpen(cmd, args, deps, opts)
			},
		},
		&cobra.Command{
			Use:   "visible",
			Short: "Print whether the open command applies to the directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runVisible(cmd, deps, opts)
			},
		},
	)

	return rootCmd
}

// setup validates dependencies and builds the logger, config and workspace.
func setup(cmd *cobra.Command, deps *Dependencies, opts *options) (context.Context, Logger, *AppConfig, Workspace, error) {
	if deps == nil {
		return nil, nil, nil, nil, errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Set log level based on verbose flag (best-effort)
	if opts.verbose {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			writeWarningf(stderrOf(deps), "warning: could not set log level: %v\n", err)
		}
	}

	log := deps.LoggerFactory()

	cfg, err := deps.ConfigLoader()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return nil, nil, nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	ws, err := deps.WorkspaceFactory(opts.repoDir, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open workspace", err, map[string]interface{}{
			"path": opts.repoDir,
		})
		return nil, nil, nil, nil, fmt.Errorf("workspace error: %w", err)
	}

	return ctx, log, cfg, ws, nil
}

// runOpen resolves the link with injected dependencies.
func runOpen(cmd *cobra.Command, args []string, deps *Dependencies, opts *options) error {
	ctx, log, cfg, ws, err := setup(cmd, deps, opts)
	if err != nil {
		return err
	}

	override := ""
	if len(args) > 0 {
		override = args[0]
	}

	log.Info(ctx, "starting permalink-open", map[string]interface{}{
		"path":     opts.repoDir,
		"argument": override != "",
		"verbose":  opts.verbose,
	})

	opener := deps.OpenerFactory(ws, cfg, log)
	outcome, err := opener.Execute(ctx, override)
	if err != nil {
		log.Error(ctx, "failed to open link", err, nil)
		if errors.Is(err, domain.ErrClipboardUnavailable) {
			return fmt.Errorf("clipboard is not available; pass the URL as an argument: %w", err)
		}
		if errors.Is(err, domain.ErrEditorFailed) {
			return fmt.Errorf("editor error: %w", err)
		}
		return err
	}

	if outcome.Kind == domain.OutcomeDiagnostic {
		return errDiagnosticShown
	}

	log.Info(ctx, "permalink-open complete", map[string]interface{}{
		"outcome":   outcome.Kind.String(),
		"file_path": outcome.FilePath,
		"branch":    outcome.BranchName,
	})

	return nil
}

// runVisible prints the visibility gate.
func runVisible(cmd *cobra.Command, deps *Dependencies, opts *options) error {
	ctx, _, _, ws, err := setup(cmd, deps, opts)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdoutOf(deps), usecases.CommandVisible(ctx, ws))
	return err
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnosticShown) {
			writeWarningf(stderrOf(defaultDeps), "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func stdoutOf(deps *Dependencies) io.Writer {
	if deps == nil || deps.Stdout == nil {
		return os.Stdout
	}
	return deps.Stdout
}

func stderrOf(deps *Dependencies) io.Writer {
	if deps == nil || deps.Stderr == nil {
		return os.Stderr
	}
	return deps.Stderr
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
