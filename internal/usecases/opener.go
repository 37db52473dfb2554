package usecases

import (
	"context"
	"fmt"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// Logger defines the logging interface required by the use cases.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// LinkOpener captures the link and repository state, resolves them and acts on the outcome.
type LinkOpener struct {
	clipboard domain.ClipboardReader
	repos     domain.RepositoryStateProvider
	caps      domain.Capabilities
	files     domain.FileOpener
	presenter domain.DiagnosticPresenter
	logger    Logger
}

// NewLinkOpener creates a new LinkOpener with the given dependencies.
func NewLinkOpener(
	clipboard domain.ClipboardReader,
	repos domain.RepositoryStateProvider,
	caps domain.Capabilities,
	files domain.FileOpener,
	presenter domain.DiagnosticPresenter,
	log Logger,
) *LinkOpener {
	return &LinkOpener{
		clipboard: clipboard,
		repos:     repos,
		caps:      caps,
		files:     files,
		presenter: presenter,
		logger:    log,
	}
}

// Execute resolves override when it is non-empty, otherwise the clipboard content,
// against a single snapshot of the active repository and acts on the outcome.
// The outcome is returned so callers can report it.
func (o *LinkOpener) Execute(ctx context.Context, override string) (domain.Outcome, error) {
	content := override
	source := "argument"
	if content == "" {
		source = "clipboard"
		text, err := o.clipboard.ReadClipboard(ctx)
		if err != nil {
			return domain.NoOp(), fmt.Errorf("failed to read clipboard: %w", err)
		}
		content = text
	}

	state, err := o.repos.ActiveRepository(ctx)
	if err != nil {
		return domain.NoOp(), fmt.Errorf("failed to get active repository: %w", err)
	}

	o.logger.Debug(ctx, "captured resolution input", map[string]interface{}{
		"source":     source,
		"repository": state.LocalPath,
		"name":       state.Name,
		"owner":      state.Owner,
		"branch":     state.CurrentBranchName,
	})

	outcome, err := Resolve(ctx, content, state, o.caps)
	if err != nil {
		return outcome, err
	}

	o.logger.Info(ctx, "link resolved", map[string]interface{}{
		"outcome": outcome.Kind.String(),
	})

	if err := o.apply(ctx, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// apply hands a terminal outcome to the host collaborators.
func (o *LinkOpener) apply(ctx context.Context, outcome domain.Outcome) error {
	switch outcome.Kind {
	case domain.OutcomeOpenFile:
		if err := o.files.OpenFileAt(ctx, outcome.FilePath, outcome.Link); err != nil {
			return fmt.Errorf("failed to open %s: %w", outcome.FilePath, err)
		}
		return nil
	case domain.OutcomeDiagnostic:
		if err := o.presenter.ShowDiagnostic(ctx, outcome.Message); err != nil {
			return fmt.Errorf("failed to show diagnostic: %w", err)
		}
		return nil
	case domain.OutcomeAnnotateFile:
		// Already on screen; the annotated viewer shows the view when it succeeds.
		o.logger.Debug(ctx, "annotated view shown", map[string]interface{}{
			"repository": outcome.RepositoryPath,
			"branch":     outcome.BranchName,
		})
		return nil
	case domain.OutcomeNoOp:
		return nil
	default:
		return fmt.Errorf("%w: %d", domain.ErrUnknownOutcome, outcome.Kind)
	}
}

// CommandVisible reports whether the open command should be offered to the user.
func CommandVisible(ctx context.Context, probe domain.VersionControlProbe) bool {
	return probe.IsVersionControlContextActive(ctx)
}
