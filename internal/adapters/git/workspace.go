package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// Workspace reports the repository that contains a working directory.
// It implements domain.RepositoryStateProvider and domain.VersionControlProbe.
type Workspace struct {
	dir    string
	remote string
	logger Logger
}

// NewWorkspace creates a Workspace rooted at dir. The remote names the remote
// whose URL supplies the repository owner and name.
func NewWorkspace(dir, remote string, log Logger) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if remote == "" {
		remote = domain.DefaultRemoteName
	}
	return &Workspace{dir: abs, remote: remote, logger: log}, nil
}

// IsVersionControlContextActive reports whether the directory is inside a git working tree.
func (w *Workspace) IsVersionControlContextActive(ctx context.Context) bool {
	repo, err := w.open()
	if err != nil {
		w.logger.Debug(ctx, "no version control context", map[string]interface{}{
			"path":  w.dir,
			"error": err.Error(),
		})
		return false
	}
	_, err = repo.Worktree()
	return err == nil
}

// ActiveRepository snapshots the repository containing the directory.
// A directory outside any repository, or a bare repository, yields a state
// with an empty LocalPath.
func (w *Workspace) ActiveRepository(ctx context.Context) (*domain.RepositoryState, error) {
	repo, err := w.open()
	if errors.Is(err, git.ErrRepositoryNotExists) {
		w.logger.Debug(ctx, "directory is not inside a git repository", map[string]interface{}{
			"path": w.dir,
		})
		return &domain.RepositoryState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRepositoryNotFound, w.dir, err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		w.logger.Debug(ctx, "repository is bare; no working copy", map[string]interface{}{
			"path": w.dir,
		})
		return &domain.RepositoryState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	state := &domain.RepositoryState{
		LocalPath: root,
		Name:      filepath.Base(root),
	}

	branch, err := currentBranch(repo)
	if err != nil {
		return nil, err
	}
	if branch == "" {
		w.logger.Warn(ctx, "HEAD is detached; branch name will be empty", map[string]interface{}{
			"path": root,
		})
	}
	state.CurrentBranchName = branch

	if remote, err := repo.Remote(w.remote); err == nil && len(remote.Config().URLs) > 0 {
		owner, name, err := parseRemoteURL(remote.Config().URLs[0])
		if err != nil {
			w.logger.Warn(ctx, "could not parse remote URL; using directory name", map[string]interface{}{
				"remote": w.remote,
				"url":    remote.Config().URLs[0],
			})
		} else {
			state.Owner = owner
			state.Name = name
		}
	} else {
		w.logger.Debug(ctx, "remote not configured; using directory name", map[string]interface{}{
			"remote": w.remote,
			"name":   state.Name,
		})
	}

	w.logger.Debug(ctx, "extracted repository state", map[string]interface{}{
		"path":   state.LocalPath,
		"owner":  state.Owner,
		"name":   state.Name,
		"branch": state.CurrentBranchName,
	})

	return state, nil
}

func (w *Workspace) open() (*git.Repository, error) {
	return git.PlainOpenWithOptions(w.dir, &git.PlainOpenOptions{DetectDotGit: true})
}

// currentBranch returns the short name HEAD points at, including an unborn
// branch, or "" when HEAD is detached.
func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	return head.Target().Short(), nil
}
