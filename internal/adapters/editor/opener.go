// Package editor opens files in the user's editor.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// Logger defines the logging interface for the editor adapter.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// RunFunc starts a process and waits for it.
type RunFunc func(ctx context.Context, name string, args ...string) error

// Opener launches an editor at a file and line, or prints the location when
// no editor is configured. It implements domain.FileOpener.
type Opener struct {
	editor string
	out    io.Writer
	run    RunFunc
	logger Logger
}

// NewOpener creates an Opener for the editor command line (e.g. "vim" or "code -g").
// Locations are printed to out when editor is empty.
func NewOpener(editor string, out io.Writer, log Logger) *Opener {
	return NewOpenerWithRunner(editor, out, runAttached, log)
}

// NewOpenerWithRunner creates an Opener with a custom process runner.
// This is useful for testing.
func NewOpenerWithRunner(editor string, out io.Writer, run RunFunc, log Logger) *Opener {
	return &Opener{
		editor: strings.TrimSpace(editor),
		out:    out,
		run:    run,
		logger: log,
	}
}

// OpenFileAt opens filePath at the first line the link selects.
func (o *Opener) OpenFileAt(ctx context.Context, filePath string, link *domain.LinkContext) error {
	line := 0
	if link != nil {
		line = link.Line()
	}

	if o.editor == "" {
		location := filePath
		if line > 0 {
			location += ":" + strconv.Itoa(line)
		}
		_, err := fmt.Fprintln(o.out, location)
		return err
	}

	fields := strings.Fields(o.editor)
	args := append([]string{}, fields[1:]...)
	switch {
	case line <= 0:
		args = append(args, filePath)
	case hasGotoFlag(fields[1:]):
		args = append(args, filePath+":"+strconv.Itoa(line))
	default:
		args = append(args, "+"+strconv.Itoa(line), filePath)
	}

	o.logger.Debug(ctx, "launching editor", map[string]interface{}{
		"editor": fields[0],
		"args":   args,
	})

	if err := o.run(ctx, fields[0], args...); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrEditorFailed, fields[0], err)
	}
	return nil
}

// hasGotoFlag reports whether the editor takes positions as file:line
// (code -g, code --goto).
func hasGotoFlag(args []string) bool {
	for _, a := range args {
		if a == "-g" || a == "--goto" {
			return true
		}
	}
	return false
}

// runAttached runs the editor on the current terminal.
func runAttached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
