// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// Resolve maps captured clipboard content and a repository snapshot to exactly one outcome.
//
// Checks run in a fixed order and each collaborator in caps is queried at most once:
// link kind, active repository, repository name, blob resolution, working copy
// changes, annotated view. Every anticipated failure becomes a Diagnostic outcome.
// Collaborator errors and context cancellation return a NoOp outcome with the error.
func Resolve(
	ctx context.Context,
	content string,
	state *domain.RepositoryState,
	caps domain.Capabilities,
) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.NoOp(), err
	}

	link := caps.Parser.ParseLink(content)
	if link == nil {
		return domain.Diagnostic(domain.NoGitHubURLMessage), nil
	}

	if link.Kind != domain.LinkKindBlob {
		return domain.Diagnostic(domain.UnknownLinkType(link.URL)), nil
	}

	if !state.HasRepository() {
		return domain.Diagnostic(domain.NoActiveRepositoryMessage), nil
	}

	if !strings.EqualFold(state.Name, link.RepositoryName) {
		return domain.Diagnostic(domain.DifferentRepository(link.RepositoryName)), nil
	}

	blob, err := caps.Blobs.ResolveBlob(ctx, state.LocalPath, link)
	if err != nil {
		return domain.NoOp(), fmt.Errorf("failed to resolve blob: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.NoOp(), err
	}

	if !blob.Resolved() {
		// A different owner means a fork that fetching cannot fix.
		if !strings.EqualFold(state.Owner, link.Owner) {
			return domain.Diagnostic(domain.NoResolveDifferentOwnerMessage), nil
		}
		return domain.Diagnostic(domain.NoResolveSameOwnerMessage), nil
	}

	changed, err := caps.Changes.HasWorkingCopyChanges(ctx, state.LocalPath, blob.Commitish, blob.Path)
	if err != nil {
		return domain.NoOp(), fmt.Errorf("failed to compare working copy: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.NoOp(), err
	}

	if !changed {
		return domain.OpenFile(filepath.Join(state.LocalPath, filepath.FromSlash(blob.Path)), link), nil
	}

	branch := state.CurrentBranchName
	shown, err := caps.Annotator.TryShowAnnotatedView(ctx, state.LocalPath, branch, link)
	if err != nil {
		return domain.NoOp(), fmt.Errorf("failed to show annotated view: %w", err)
	}
	if !shown {
		return domain.Diagnostic(domain.ChangesInWorkingDirectoryMessage), nil
	}

	return domain.AnnotateFile(state.LocalPath, branch, link), nil
}
