package gogit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// repository is a handle opened without a worktree.
type repository struct {
	repo *git.Repository
	cfg  Config
}

var _ engine.Repository = (*repository)(nil)

// Commits implements engine.Repository.
// A revision that names no commit yields no commits. Other resolution
// failures, such as unreadable objects, are returned.
func (r *repository) Commits(ref string, limit int) ([]engine.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		if unresolved(err) {
			return nil, nil
		}
		return nil, classify(err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: *hash})
	if err != nil {
		return nil, classify(err)
	}
	defer iter.Close()

	var commits []engine.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, toCommit(c))
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return commits, nil
}

// unresolved reports whether err from ResolveRevision means the revision does
// not exist. io.EOF comes from walking parents past a root commit.
func unresolved(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) ||
		errors.Is(err, plumbing.ErrObjectNotFound) ||
		errors.Is(err, io.EOF)
}

// Branches implements engine.Repository.
func (r *repository) Branches() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, classify(err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().String())
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return names, nil
}

// Blob implements engine.Repository.
func (r *repository) Blob(path, ref string) ([]byte, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, engine.Unresolved(ref, err)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, classify(err)
	}

	file, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, &engine.Failure{
				Category: engine.CategoryPathNotFound,
				Detail:   fmt.Sprintf("%s at %s", path, ref),
				Ref:      ref,
				Err:      err,
			}
		}
		return nil, classify(err)
	}

	// Refuse oversized objects before reading them
	if r.cfg.MaxBlobSize > 0 && file.Size > r.cfg.MaxBlobSize {
		return nil, engine.ObjectTooLarge(file.Hash.String(), r.cfg.MaxBlobSize, file.Size)
	}

	reader, err := file.Reader()
	if err != nil {
		return nil, classify(err)
	}
	defer reader.Close() //nolint:errcheck // read-only blob reader

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, classify(err)
	}

	return data, nil
}

// Fetch implements engine.Repository. A fetch that finds nothing new
// succeeds.
func (r *repository) Fetch(ctx context.Context, req engine.FetchRequest) error {
	name := req.Remote
	if name == "" {
		name = engine.DefaultRemote
	}

	remote, err := r.repo.Remote(name)
	if err != nil {
		return classify(err)
	}

	// Prepare fetch options
	fetchOpts := &git.FetchOptions{
		RemoteName: name,
		Prune:      req.Prune,
		Depth:      req.Depth,
	}

	for _, spec := range req.RefSpecs {
		rs := gitconfig.RefSpec(spec)
		if err := rs.Validate(); err != nil {
			return engine.Unsupported("refspec", fmt.Sprintf("%s: %v", spec, err))
		}
		fetchOpts.RefSpecs = append(fetchOpts.RefSpecs, rs)
	}

	// Set up authentication if available
	if r.cfg.Auth != nil {
		urls := remote.Config().URLs
		if len(urls) > 0 {
			method, authErr := r.cfg.Auth.Method(urls[0])
			if authErr != nil {
				return engine.Classified(engine.CategoryAuth, authErr)
			}
			fetchOpts.Auth = method
		}
	}

	if err := r.repo.FetchContext(ctx, fetchOpts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return classify(err)
	}

	return nil
}

// Close implements engine.Repository. go-git handles hold no descriptors
// between calls.
func (r *repository) Close() error {
	return nil
}

// workTree is a handle opened with a worktree attached.
type workTree struct {
	repository
	worktree *git.Worktree
}

var _ engine.WorkTree = (*workTree)(nil)

// Clean implements engine.WorkTree. go-git cannot keep excluded paths, so a
// non-empty exclude list is rejected.
func (w *workTree) Clean(req engine.CleanRequest) error {
	if len(req.Excludes) > 0 {
		return engine.Unsupported("excludes", "go-git clean has no exclude list")
	}

	if err := w.worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return classify(err)
	}

	return nil
}

// Reset implements engine.WorkTree.
func (w *workTree) Reset(sha string, mode engine.ResetMode) error {
	if !plumbing.IsHash(sha) {
		return engine.Unresolved(sha, nil)
	}

	resetOpts := &git.ResetOptions{
		Commit: plumbing.NewHash(sha),
		Mode:   git.MixedReset,
	}
	if mode == engine.ResetHard {
		resetOpts.Mode = git.HardReset
	}

	if err := w.worktree.Reset(resetOpts); err != nil {
		if errors.Is(err, git.ErrUnstagedChanges) {
			return engine.CheckoutConflict(w.modified(), err)
		}
		return classify(err)
	}

	return nil
}

// modified lists tracked paths with working tree changes, sorted.
func (w *workTree) modified() []string {
	status, err := w.worktree.Status()
	if err != nil {
		return nil
	}

	var paths []string
	for path, s := range status {
		if s.Worktree != git.Unmodified && s.Worktree != git.Untracked {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// toCommit converts a go-git commit into an engine.Commit.
func toCommit(c *object.Commit) engine.Commit {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")

	return engine.Commit{
		ID:      c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Author.When,
		Subject: subject,
	}
}
