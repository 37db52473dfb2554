package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// DefaultContextLines is the number of lines shown around the linked range.
const DefaultContextLines = 3

const (
	shortHashLen = 8
	authorWidth  = 16
	dateLayout   = "2006-01-02"
)

// Annotator produces a blame view for a link.
type Annotator interface {
	// Annotate returns nil when no blame view can be produced.
	Annotate(ctx context.Context, repositoryDir, branch string, link *domain.LinkContext) (*domain.Annotation, error)
}

// AnnotationView renders blame views around the linked lines.
// It implements domain.AnnotatedViewer.
type AnnotationView struct {
	annotator    Annotator
	out          io.Writer
	contextLines int

	header   lipgloss.Style
	meta     lipgloss.Style
	selected lipgloss.Style
}

// NewAnnotationView creates an AnnotationView writing to out.
// A negative contextLines falls back to DefaultContextLines.
func NewAnnotationView(annotator Annotator, out io.Writer, contextLines int) *AnnotationView {
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}
	r := lipgloss.NewRenderer(out)
	return &AnnotationView{
		annotator:    annotator,
		out:          out,
		contextLines: contextLines,
		header:       r.NewStyle().Bold(true),
		meta:         r.NewStyle().Faint(true),
		selected:     r.NewStyle().Reverse(true),
	}
}

// TryShowAnnotatedView renders the blame of the linked file on branchName.
// Returns false when no blame is available or the linked lines fall outside the
// file on that branch.
func (v *AnnotationView) TryShowAnnotatedView(
	ctx context.Context,
	repositoryDir, branchName string,
	link *domain.LinkContext,
) (bool, error) {
	annotation, err := v.annotator.Annotate(ctx, repositoryDir, branchName, link)
	if err != nil {
		return false, err
	}
	if annotation == nil || len(annotation.Lines) == 0 {
		return false, nil
	}

	first, last, ok := v.window(link.Lines, len(annotation.Lines))
	if !ok {
		return false, nil
	}

	var b strings.Builder
	b.WriteString(v.header.Render(fmt.Sprintf("%s @ %s", annotation.Path, annotation.Revision)))
	b.WriteString("\n")
	for _, line := range annotation.Lines[first-1 : last] {
		row := v.meta.Render(fmt.Sprintf("%s %-*s %s",
			shortHash(line.CommitSHA),
			authorWidth, truncate(line.Author, authorWidth),
			line.Date.Format(dateLayout),
		))
		text := fmt.Sprintf("%5d │ %s", line.Number, line.Text)
		if link.Lines != nil && line.Number >= link.Lines.Start && line.Number <= link.Lines.End {
			text = v.selected.Render(text)
		}
		b.WriteString(row)
		b.WriteString(" ")
		b.WriteString(text)
		b.WriteString("\n")
	}

	if _, err := io.WriteString(v.out, b.String()); err != nil {
		return false, fmt.Errorf("failed to write annotated view: %w", err)
	}
	return true, nil
}

// window returns the 1-based inclusive line span to render.
func (v *AnnotationView) window(lines *domain.LineRange, total int) (int, int, bool) {
	if lines == nil {
		return 1, min(total, 1+2*v.contextLines), true
	}
	if lines.Start > total {
		return 0, 0, false
	}
	first := max(1, lines.Start-v.contextLines)
	last := min(total, lines.End+v.contextLines)
	return first, last, true
}

func shortHash(sha string) string {
	if len(sha) > shortHashLen {
		return sha[:shortHashLen]
	}
	return sha
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
