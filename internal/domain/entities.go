// Package domain defines the core business entities and interfaces for permalink-open.
package domain

import (
	"fmt"
	"time"
)

// LinkKind classifies what a shared link points at.
type LinkKind int

const (
	// LinkKindOther covers every link that is not a file blob
	// (trees, pull requests, issues, commits, bare repositories).
	LinkKindOther LinkKind = iota

	// LinkKindBlob is a link to file content at a revision.
	LinkKindBlob
)

// String returns the lowercase name of the link kind.
func (k LinkKind) String() string {
	if k == LinkKindBlob {
		return "blob"
	}
	return "other"
}

// LineRange is the 1-based, inclusive line selection carried by a permalink fragment.
// End equals Start for a single line (#L10).
type LineRange struct {
	Start int
	End   int
}

// LinkContext is the parsed representation of a shared link.
// It is produced by a LinkParser and is not modified afterwards.
type LinkContext struct {
	// Host is the lowercase host the link points at (github.com or an enterprise host).
	Host string

	// Owner is the repository owner (user or organization).
	Owner string

	// RepositoryName is the repository name without any .git suffix.
	RepositoryName string

	// Kind is the link kind.
	Kind LinkKind

	// TreeIsh is the "<commitish>/<path>" tail of a blob link.
	// Branch names may contain slashes, so the split is left to blob resolution.
	TreeIsh string

	// Lines is the selected line range, nil when the link has no #L fragment.
	Lines *LineRange

	// URL is the original link text, kept for diagnostics.
	URL string
}

// Line returns the first selected line, or 0 when the link selects none.
func (c LinkContext) Line() int {
	if c.Lines == nil {
		return 0
	}
	return c.Lines.Start
}

// RepositoryState is a snapshot of the active local repository.
type RepositoryState struct {
	// LocalPath is the working tree root. Empty means there is no active repository.
	LocalPath string

	// Name is the repository name derived from the configured remote
	// (or the working tree directory name when there is no remote).
	Name string

	// Owner is the repository owner derived from the configured remote.
	Owner string

	// CurrentBranchName is the checked out branch, empty when HEAD is detached.
	CurrentBranchName string
}

// HasRepository reports whether the snapshot describes an active repository.
func (s *RepositoryState) HasRepository() bool {
	return s != nil && s.LocalPath != ""
}

// BlobResolution maps a LinkContext to a concrete revision and path in the local repository.
type BlobResolution struct {
	// Commitish is the revision identifier used for later lookups.
	Commitish string

	// Path is the slash-separated path inside the repository. Empty signals failure.
	Path string

	// IsExactShaMatch is true when Commitish is a commit hash rather than a symbolic ref.
	IsExactShaMatch bool

	// CommitSHA is the full hash of the resolved commit.
	CommitSHA string
}

// Resolved reports whether the link was mapped to a path.
func (b BlobResolution) Resolved() bool {
	return b.Path != ""
}

// OutcomeKind tags the Outcome variant.
type OutcomeKind int

const (
	// OutcomeNoOp means nothing visible happens.
	OutcomeNoOp OutcomeKind = iota

	// OutcomeOpenFile opens FilePath at the link's location.
	OutcomeOpenFile

	// OutcomeAnnotateFile shows a blame view of the file on BranchName.
	OutcomeAnnotateFile

	// OutcomeDiagnostic shows Message to the user.
	OutcomeDiagnostic
)

// String returns the outcome kind name used in logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOpenFile:
		return "open_file"
	case OutcomeAnnotateFile:
		return "annotate_file"
	case OutcomeDiagnostic:
		return "diagnostic"
	default:
		return "noop"
	}
}

// Outcome is the result of resolving a link. Only the fields of its Kind are set.
type Outcome struct {
	Kind OutcomeKind

	// FilePath is the absolute path of the file to open (OutcomeOpenFile).
	FilePath string

	// RepositoryPath is the working tree root (OutcomeAnnotateFile).
	RepositoryPath string

	// BranchName is the branch the blame view was taken on (OutcomeAnnotateFile).
	BranchName string

	// Link is the resolved link (OutcomeOpenFile, OutcomeAnnotateFile).
	Link *LinkContext

	// Message is the user-facing text (OutcomeDiagnostic).
	Message string
}

// NoOp returns the empty outcome.
func NoOp() Outcome {
	return Outcome{Kind: OutcomeNoOp}
}

// OpenFile returns an outcome that opens filePath at the location of link.
func OpenFile(filePath string, link *LinkContext) Outcome {
	return Outcome{Kind: OutcomeOpenFile, FilePath: filePath, Link: link}
}

// AnnotateFile returns an outcome for a blame view shown on branchName.
func AnnotateFile(repositoryPath, branchName string, link *LinkContext) Outcome {
	return Outcome{
		Kind:           OutcomeAnnotateFile,
		RepositoryPath: repositoryPath,
		BranchName:     branchName,
		Link:           link,
	}
}

// Diagnostic returns an outcome that shows message.
func Diagnostic(message string) Outcome {
	return Outcome{Kind: OutcomeDiagnostic, Message: message}
}

// User-facing diagnostic messages. The wording is fixed; hosts match on it.
const (
	NoGitHubURLMessage               = "Couldn't a find a GitHub URL in clipboard"
	NoResolveSameOwnerMessage        = "Couldn't find target URL in current repository. Try again after doing a fetch."
	NoResolveDifferentOwnerMessage   = "The target URL has a different owner to the current repository."
	NoActiveRepositoryMessage        = "There is no active repository to navigate"
	ChangesInWorkingDirectoryMessage = "This file has changed since the permalink was created"
	DifferentRepositoryMessage       = "Please open the repository '%s' and try again"
	UnknownLinkTypeMessage           = "Couldn't open from '%s'. Only URLs that link to repository files are currently supported."
)

// DifferentRepository formats DifferentRepositoryMessage for repositoryName.
func DifferentRepository(repositoryName string) string {
	return fmt.Sprintf(DifferentRepositoryMessage, repositoryName)
}

// UnknownLinkType formats UnknownLinkTypeMessage for url.
func UnknownLinkType(url string) string {
	return fmt.Sprintf(UnknownLinkTypeMessage, url)
}

// DefaultRemoteName is the remote used to derive the repository owner and name.
const DefaultRemoteName = "origin"

// AnnotatedLine is one line of a blame view.
type AnnotatedLine struct {
	// Number is the 1-based line number in the annotated revision.
	Number int

	// CommitSHA is the commit that last changed the line.
	CommitSHA string

	// Author is the display name of that commit's author.
	Author string

	// Date is the author date of that commit.
	Date time.Time

	// Text is the line content without its trailing newline.
	Text string
}

// Annotation is a blame view of one file at one revision.
type Annotation struct {
	Path     string
	Revision string
	Lines    []AnnotatedLine
}
