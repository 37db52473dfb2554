// Package output provides adapters for writing application output.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Writer shows diagnostics on the configured output destination.
// By default, it writes to stderr so stdout stays free for the host.
type Writer struct {
	out   io.Writer
	style lipgloss.Style
}

// NewWriter creates a new Writer that writes to stderr.
func NewWriter() *Writer {
	return NewWriterWithOutput(os.Stderr)
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// Color is used only when out is a terminal.
func NewWriterWithOutput(out io.Writer) *Writer {
	r := lipgloss.NewRenderer(out)
	return &Writer{
		out:   out,
		style: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// ShowDiagnostic writes the message as a single line.
func (w *Writer) ShowDiagnostic(_ context.Context, message string) error {
	_, err := fmt.Fprintln(w.out, w.style.Render(message))
	return err
}
