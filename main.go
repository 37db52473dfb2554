// Package main is the entry point for the permalink-open CLI application.
// permalink-open resolves a GitHub permalink from the clipboard against the local
// repository and opens the referenced file, or explains why it cannot.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/MyCarrier-DevOps/permalink-open/cmd"
	"github.com/MyCarrier-DevOps/permalink-open/internal/adapters/clipboard"
	"github.com/MyCarrier-DevOps/permalink-open/internal/adapters/editor"
	"github.com/MyCarrier-DevOps/permalink-open/internal/adapters/git"
	"github.com/MyCarrier-DevOps/permalink-open/internal/adapters/link"
	logadapter "github.com/MyCarrier-DevOps/permalink-open/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/permalink-open/internal/adapters/output"
	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
	"github.com/MyCarrier-DevOps/permalink-open/internal/infrastructure/config"
	"github.com/MyCarrier-DevOps/permalink-open/internal/usecases"
)

func main() {
	cmd.SetDefaultDependencies(newDependencies(newAppLogger, os.Stdout, os.Stderr))
	cmd.Execute()
}

// newAppLogger builds the shared logger. It runs after flag parsing, so
// --verbose has already been applied to LOG_LEVEL.
func newAppLogger() cmd.Logger {
	settings := config.LoadLogSettings()
	zapLog, err := logadapter.NewAppLogger(settings.Level, settings.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logadapter.NewZapAdapter(&logger.NopLogger{})
	}
	return logadapter.NewZapAdapter(zapLog)
}

// newDependencies wires up production dependencies. Every adapter logs through
// the logger the command builds with newLogger.
func newDependencies(newLogger func() cmd.Logger, stdout, stderr io.Writer) *cmd.Dependencies {
	return &cmd.Dependencies{
		LoggerFactory: newLogger,

		ConfigLoader: func() (*cmd.AppConfig, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return &cmd.AppConfig{
				Hosts:        cfg.Hosts,
				Remote:       cfg.Remote,
				Editor:       cfg.Editor,
				ContextLines: cfg.ContextLines,
			}, nil
		},

		WorkspaceFactory: func(dir string, cfg *cmd.AppConfig, log cmd.Logger) (cmd.Workspace, error) {
			ws, err := git.NewWorkspace(dir, cfg.Remote, log)
			if err != nil {
				return nil, err
			}
			return ws, nil
		},

		OpenerFactory: func(ws cmd.Workspace, cfg *cmd.AppConfig, log cmd.Logger) domain.Opener {
			client := git.NewClient(cfg.Remote, log)
			caps := domain.Capabilities{
				Parser:    link.NewParser(cfg.Hosts...),
				Blobs:     client,
				Changes:   client,
				Annotator: output.NewAnnotationView(client, stdout, cfg.ContextLines),
			}
			return usecases.NewLinkOpener(
				clipboard.NewReader(),
				ws,
				caps,
				editor.NewOpener(cfg.Editor, stdout, log),
				output.NewWriterWithOutput(stderr),
				log,
			)
		},

		Stdout: stdout,
		Stderr: stderr,
	}
}
