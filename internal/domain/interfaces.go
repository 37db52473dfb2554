// Package domain defines the core business entities and interfaces for permalink-open.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for repository access and host integration.
var (
	// ErrRepositoryNotFound indicates the specified path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrClipboardUnavailable indicates the clipboard could not be read.
	ErrClipboardUnavailable = errors.New("clipboard is not available")

	// ErrEditorFailed indicates the configured editor could not be launched.
	ErrEditorFailed = errors.New("failed to launch editor")

	// ErrUnknownOutcome indicates an outcome kind the host does not know how to act on.
	ErrUnknownOutcome = errors.New("unknown outcome kind")
)

// LinkParser turns free text into a LinkContext.
type LinkParser interface {
	// ParseLink returns the first recognizable repository link in text,
	// or nil when there is none.
	ParseLink(text string) *LinkContext
}

// ClipboardReader reads the current clipboard text.
type ClipboardReader interface {
	ReadClipboard(ctx context.Context) (string, error)
}

// BlobResolver maps a link to a revision and path inside a local repository.
type BlobResolver interface {
	// ResolveBlob returns a BlobResolution with an empty Path when the link
	// cannot be resolved locally. An error is returned only when the repository
	// itself cannot be read.
	ResolveBlob(ctx context.Context, repositoryDir string, link *LinkContext) (BlobResolution, error)
}

// ChangeDetector compares working copy content with a revision.
type ChangeDetector interface {
	// HasWorkingCopyChanges reports whether the working file at path differs
	// from its content at commitish.
	HasWorkingCopyChanges(ctx context.Context, repositoryDir, commitish, path string) (bool, error)
}

// AnnotatedViewer shows a history-aware view of a linked file.
type AnnotatedViewer interface {
	// TryShowAnnotatedView shows a blame view of the linked file on branchName,
	// anchored at the link's lines. It returns false when no view could be produced.
	TryShowAnnotatedView(ctx context.Context, repositoryDir, branchName string, link *LinkContext) (bool, error)
}

// FileOpener opens a file in the user's editor.
type FileOpener interface {
	OpenFileAt(ctx context.Context, filePath string, link *LinkContext) error
}

// DiagnosticPresenter surfaces a one-line informational message.
type DiagnosticPresenter interface {
	ShowDiagnostic(ctx context.Context, message string) error
}

// RepositoryStateProvider snapshots the active local repository.
type RepositoryStateProvider interface {
	// ActiveRepository returns the current snapshot. LocalPath is empty when
	// there is no active repository; that is not an error.
	ActiveRepository(ctx context.Context) (*RepositoryState, error)
}

// VersionControlProbe drives command visibility.
type VersionControlProbe interface {
	IsVersionControlContextActive(ctx context.Context) bool
}

// Capabilities is the set of collaborators the decision procedure may query.
// Each is called at most once per resolution.
type Capabilities struct {
	Parser    LinkParser
	Blobs     BlobResolver
	Changes   ChangeDetector
	Annotator AnnotatedViewer
}

// Opener resolves a link and acts on the outcome.
type Opener interface {
	// Execute resolves override when non-empty, otherwise the clipboard content.
	Execute(ctx context.Context, override string) (Outcome, error)
}
