// Package gitrepo fetches repository snapshots for analysis. A snapshot is the
// file tree of one (owner, repo, ref), shallow-cloned into a temp directory,
// filtered down to text files and read in walk order.
package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/repolens/repolens/config"
	"go.uber.org/zap"
)

// FetchParams identifies the snapshot to fetch. Ref may be a branch, a tag, a
// full commit SHA, or empty for the default branch. Token, when set, is used
// as a GitHub access token for the clone.
type FetchParams struct {
	Owner string
	Repo  string
	Ref   string
	Token string
}

// File is one file of a snapshot.
type File struct {
	Path    string
	Content string
	Size    int64
}

// Snapshot is the fetched file tree. ResolvedRef is never empty: it is the
// requested ref, or the default branch name when none was requested.
type Snapshot struct {
	Files       []File
	ResolvedRef string
}

// Fetch clones the repository at the requested ref and reads its files.
func Fetch(ctx context.Context, l *zap.Logger, params FetchParams) (*Snapshot, error) {
	destPath, err := os.MkdirTemp(config.Analysis.CloneDir(), "repolens-clone-")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone dir: %w", err)
	}
	defer CleanupRepo(destPath)

	l.Info("cloning repository",
		zap.String("owner", params.Owner),
		zap.String("repo", params.Repo),
		zap.String("ref", params.Ref),
	)

	repo, err := clone(ctx, params, destPath)
	if err != nil {
		return nil, err
	}

	resolvedRef, err := resolveRef(repo, params.Ref)
	if err != nil {
		return nil, err
	}

	files, err := readFiles(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository files: %w", err)
	}

	l.Info("repository cloned",
		zap.String("resolved_ref", resolvedRef),
		zap.Int("files", len(files)),
	)

	return &Snapshot{Files: files, ResolvedRef: resolvedRef}, nil
}

// clone performs the git clone appropriate for the kind of ref requested.
func clone(ctx context.Context, params FetchParams, destPath string) (*git.Repository, error) {
	opts := &git.CloneOptions{
		URL:  CloneURL(params.Owner, params.Repo),
		Auth: TokenAuth(params.Token),
	}

	switch {
	case params.Ref == "":
		opts.Depth = 1
		opts.SingleBranch = true

	case IsCommitSHA(params.Ref):
		// A commit may not be reachable from any branch tip, so the clone
		// cannot be shallow. Checkout happens below.

	default:
		opts.Depth = 1
		opts.SingleBranch = true
		opts.ReferenceName = plumbing.NewBranchReferenceName(params.Ref)
	}

	repo, err := git.PlainCloneContext(ctx, destPath, false, opts)

	// A named ref that is not a branch may still be a tag.
	if err != nil && opts.ReferenceName.IsBranch() {
		opts.ReferenceName = plumbing.NewTagReferenceName(params.Ref)
		os.RemoveAll(destPath)
		repo, err = git.PlainCloneContext(ctx, destPath, false, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	if IsCommitSHA(params.Ref) {
		wt, err := repo.Worktree()
		if err != nil {
			return nil, fmt.Errorf("failed to get worktree: %w", err)
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(params.Ref)}); err != nil {
			return nil, fmt.Errorf("failed to checkout %s: %w", params.Ref, err)
		}
	}

	return repo, nil
}

// resolveRef returns the concrete ref the snapshot was taken at.
func resolveRef(repo *git.Repository, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

// readFiles walks the clone and reads every indexable text file.
func readFiles(repoPath string) ([]File, error) {
	var files []File

	err := filepath.Walk(repoPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || isSkippedDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		relPath, err := filepath.Rel(repoPath, path)
		if err != nil {
			return err
		}

		if !isIndexableFile(relPath) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		files = append(files, File{
			Path:    filepath.ToSlash(relPath),
			Content: string(content),
			Size:    info.Size(),
		})
		return nil
	})

	return files, err
}

// CleanupRepo removes a cloned repository
func CleanupRepo(repoPath string) error {
	return os.RemoveAll(repoPath)
}
