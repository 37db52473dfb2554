// Package git provides adapters for interacting with local Git repositories.
// This package implements the repository collaborators of the domain using go-git/v5.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Client answers blob, diff and blame queries against repositories on disk.
// It implements domain.BlobResolver and domain.ChangeDetector.
type Client struct {
	remote string
	logger Logger

	mu   sync.Mutex
	last *resolvedBlob
}

// resolvedBlob is the last successful resolution, reused by Annotate.
type resolvedBlob struct {
	repositoryDir string
	treeIsh       string
	blob          domain.BlobResolution
}

// NewClient creates a Client. The remote is used as a fallback namespace when a
// commitish is only known as a remote tracking branch.
func NewClient(remote string, log Logger) *Client {
	if remote == "" {
		remote = domain.DefaultRemoteName
	}
	return &Client{remote: remote, logger: log}
}

// ResolveBlob maps the link's tree-ish to a commitish and a path that exists at it.
// Every split of the tree-ish at a slash is tried, shortest commitish first,
// because branch names may contain slashes.
// Returns a BlobResolution with an empty Path when nothing matches.
func (c *Client) ResolveBlob(
	ctx context.Context,
	repositoryDir string,
	link *domain.LinkContext,
) (domain.BlobResolution, error) {
	c.forget()

	repo, err := openRepository(repositoryDir)
	if err != nil {
		return domain.BlobResolution{}, err
	}

	for _, cand := range splitTreeIsh(link.TreeIsh) {
		if err := ctx.Err(); err != nil {
			return domain.BlobResolution{}, err
		}

		commit, commitish := c.lookupCommit(repo, cand.commitish)
		if commit == nil {
			continue
		}
		if _, err := commit.File(cand.path); err != nil {
			continue
		}

		resolution := domain.BlobResolution{
			Commitish:       commitish,
			Path:            cand.path,
			IsExactShaMatch: isHashPrefix(cand.commitish, commit.Hash),
			CommitSHA:       commit.Hash.String(),
		}

		c.remember(repositoryDir, link.TreeIsh, resolution)

		c.logger.Debug(ctx, "resolved blob", map[string]interface{}{
			"commitish":  resolution.Commitish,
			"path":       resolution.Path,
			"commit_sha": resolution.CommitSHA,
			"exact_sha":  resolution.IsExactShaMatch,
		})

		return resolution, nil
	}

	c.logger.Debug(ctx, "could not resolve blob", map[string]interface{}{
		"tree_ish": link.TreeIsh,
		"path":     repositoryDir,
	})

	return domain.BlobResolution{}, nil
}

// HasWorkingCopyChanges reports whether the working file at path differs from its
// content at commitish. A missing working file counts as a change.
func (c *Client) HasWorkingCopyChanges(
	ctx context.Context,
	repositoryDir, commitish, path string,
) (bool, error) {
	repo, err := openRepository(repositoryDir)
	if err != nil {
		return false, err
	}

	commit, _ := c.lookupCommit(repo, commitish)
	if commit == nil {
		return false, fmt.Errorf("commitish %q no longer resolves", commitish)
	}

	file, err := commit.File(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s at %s: %w", path, commitish, err)
	}
	committed, err := file.Contents()
	if err != nil {
		return false, fmt.Errorf("failed to read blob %s: %w", file.Hash, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	f, err := wt.Filesystem.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Debug(ctx, "file missing from working copy", map[string]interface{}{
			"path": path,
		})
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open working file %s: %w", path, err)
	}
	defer f.Close()

	working, err := io.ReadAll(f)
	if err != nil {
		return false, fmt.Errorf("failed to read working file %s: %w", path, err)
	}

	// core.autocrlf checkouts differ only in line endings
	changed := !bytes.Equal(normalizeEOL([]byte(committed)), normalizeEOL(working))

	c.logger.Debug(ctx, "compared working copy", map[string]interface{}{
		"path":      path,
		"commitish": commitish,
		"changed":   changed,
	})

	return changed, nil
}

// Annotate blames the linked file at the tip of branch (HEAD when branch is empty).
// The path comes from the preceding ResolveBlob of the same link; the link is
// resolved only when there is none.
// Returns nil without error when the link does not resolve, the branch does not
// exist or the file is absent on the branch.
func (c *Client) Annotate(
	ctx context.Context,
	repositoryDir, branch string,
	link *domain.LinkContext,
) (*domain.Annotation, error) {
	blob, ok := c.recall(repositoryDir, link.TreeIsh)
	if !ok {
		var err error
		blob, err = c.ResolveBlob(ctx, repositoryDir, link)
		if err != nil {
			return nil, err
		}
		if !blob.Resolved() {
			return nil, nil
		}
	}

	repo, err := openRepository(repositoryDir)
	if err != nil {
		return nil, err
	}

	revision := "HEAD"
	if branch != "" {
		revision = plumbing.NewBranchReferenceName(branch).String()
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		c.logger.Warn(ctx, "cannot annotate: revision not found", map[string]interface{}{
			"revision": revision,
			"error":    err.Error(),
		})
		return nil, nil
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blame, err := git.Blame(commit, blob.Path)
	if err != nil {
		c.logger.Warn(ctx, "cannot annotate: blame failed", map[string]interface{}{
			"revision": revision,
			"path":     blob.Path,
			"error":    err.Error(),
		})
		return nil, nil
	}

	annotation := &domain.Annotation{
		Path:     blob.Path,
		Revision: revision,
		Lines:    make([]domain.AnnotatedLine, 0, len(blame.Lines)),
	}
	for i, line := range blame.Lines {
		annotation.Lines = append(annotation.Lines, domain.AnnotatedLine{
			Number:    i + 1,
			CommitSHA: line.Hash.String(),
			Author:    line.AuthorName,
			Date:      line.Date,
			Text:      line.Text,
		})
	}

	return annotation, nil
}

func (c *Client) remember(repositoryDir, treeIsh string, blob domain.BlobResolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = &resolvedBlob{repositoryDir: repositoryDir, treeIsh: treeIsh, blob: blob}
}

func (c *Client) forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = nil
}

func (c *Client) recall(repositoryDir, treeIsh string) (domain.BlobResolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil || c.last.repositoryDir != repositoryDir || c.last.treeIsh != treeIsh {
		return domain.BlobResolution{}, false
	}
	return c.last.blob, true
}

// lookupCommit resolves commitish as a revision, then as a remote tracking branch.
// Returns the commit and the revision string that found it, or nil.
func (c *Client) lookupCommit(repo *git.Repository, commitish string) (*object.Commit, string) {
	candidates := []string{commitish}
	if !strings.HasPrefix(commitish, "refs/") {
		candidates = append(candidates, "refs/remotes/"+c.remote+"/"+commitish)
	}

	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			continue
		}
		commit, err := repo.CommitObject(*hash)
		if err != nil {
			continue
		}
		return commit, rev
	}
	return nil, ""
}

// openRepository opens the repository whose working tree root is dir.
func openRepository(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRepositoryNotFound, dir, err)
	}
	return repo, nil
}

type treeIshSplit struct {
	commitish string
	path      string
}

// splitTreeIsh lists every "<commitish>/<path>" split with both sides non-empty.
func splitTreeIsh(treeIsh string) []treeIshSplit {
	var splits []treeIshSplit
	for i := 0; i < len(treeIsh); i++ {
		if treeIsh[i] != '/' {
			continue
		}
		commitish, path := treeIsh[:i], treeIsh[i+1:]
		if commitish == "" || path == "" {
			continue
		}
		splits = append(splits, treeIshSplit{commitish: commitish, path: path})
	}
	return splits
}

// isHashPrefix reports whether s is an abbreviation of hash.
func isHashPrefix(s string, hash plumbing.Hash) bool {
	if len(s) < 4 || len(s) > 40 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return strings.HasPrefix(hash.String(), strings.ToLower(s))
}

func normalizeEOL(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}
