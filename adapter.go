package gitadapter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// Adapter performs a fixed set of Git operations on repositories identified
// by path. Each call opens a fresh handle in the mode the operation requires,
// performs one engine operation and closes the handle again. Every failure is
// returned as a *GitError.
//
// An Adapter holds only immutable configuration and may be shared between
// goroutines. It does not serialize concurrent mutations of the same working
// tree; callers that need that must do it themselves.
type Adapter struct {
	engine engine.Engine
	logger *slog.Logger
}

// New creates an Adapter.
func New(opts ...Option) (*Adapter, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	return NewWithOptions(&o)
}

// NewWithOptions creates an Adapter from an Options value.
func NewWithOptions(o *Options) (*Adapter, error) {
	if err := o.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	o.applyDefaults()

	return &Adapter{
		engine: o.Engine,
		logger: o.Logger.With("engine", o.Engine.Name()),
	}, nil
}

// Engine returns the engine the adapter delegates to.
func (a *Adapter) Engine() engine.Engine {
	return a.engine
}

// BlobAt returns the content of path as recorded at ref in the repository at
// repoPath. The repository is opened bare.
func (a *Adapter) BlobAt(ctx context.Context, repoPath, ref, path string) ([]byte, error) {
	c := call{op: "blob_at", path: repoPath, ref: ref}
	a.logger.Debug("reading blob", "path", repoPath, "ref", ref, "file", path)

	var data []byte
	err := a.withRepository(ctx, c, func(repo engine.Repository) error {
		var blobErr error
		data, blobErr = repo.Blob(path, ref)
		return blobErr
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// BranchList returns the local branch names of the repository at repoPath,
// without the refs/heads/ prefix, in the order the engine reports them.
func (a *Adapter) BranchList(ctx context.Context, repoPath string) ([]string, error) {
	c := call{op: "branch_list", path: repoPath}
	a.logger.Debug("listing branches", "path", repoPath)

	var names []string
	err := a.withRepository(ctx, c, func(repo engine.Repository) error {
		refs, branchErr := repo.Branches()
		if branchErr != nil {
			return branchErr
		}

		names = make([]string, 0, len(refs))
		for _, ref := range refs {
			names = append(names, strings.TrimPrefix(ref, engine.HeadsPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}

// Clean removes untracked files and directories from the working tree at
// workTreePath.
//
// Excludes are only honoured by engines that support
// engine.FeatureCleanExcludes. With any other engine a non-empty Excludes
// fails with ErrUnsupportedOption before the working tree is touched.
func (a *Adapter) Clean(ctx context.Context, workTreePath string, opts CleanOptions) error {
	c := call{op: "clean", path: workTreePath}
	a.logger.Debug("cleaning working tree", "path", workTreePath, "excludes", opts.Excludes)

	if len(opts.Excludes) > 0 && !a.engine.Supports(engine.FeatureCleanExcludes) {
		return a.failed(c, c.fail(ErrUnsupportedOption,
			"unsupported option excludes: engine %s cannot exclude paths from clean", a.engine.Name()))
	}

	return a.withWorkTree(ctx, c, func(wt engine.WorkTree) error {
		return wt.Clean(engine.CleanRequest{Excludes: opts.Excludes})
	})
}

// Reset moves the working tree at workTreePath to ref.
//
// The ref is resolved first against the working tree's repository. If it
// does not resolve, Reset fails with ErrResolveFailed and nothing is reset.
// opts.Hard selects a hard reset; otherwise a mixed reset is performed.
func (a *Adapter) Reset(ctx context.Context, workTreePath, ref string, opts ResetOptions) error {
	c := call{op: "reset", path: workTreePath, ref: ref}
	mode := opts.mode()
	a.logger.Debug("resetting working tree", "path", workTreePath, "ref", ref, "mode", mode)

	return a.withWorkTree(ctx, c, func(wt engine.WorkTree) error {
		sha, ok, err := ResolveInRepo(wt, ref)
		if err != nil {
			return err
		}
		if !ok {
			return c.unresolved(ref)
		}

		return wt.Reset(sha.String(), mode)
	})
}

// ResolveCommit returns the commit ref points at in the repository at
// repoPath. The repository is opened bare.
func (a *Adapter) ResolveCommit(ctx context.Context, repoPath, ref string) (CommitID, error) {
	c := call{op: "resolve_commit", path: repoPath, ref: ref}
	a.logger.Debug("resolving commit", "path", repoPath, "ref", ref)

	var sha CommitID
	err := a.withRepository(ctx, c, func(repo engine.Repository) error {
		commits, commitsErr := repo.Commits(ref, 1)
		if commitsErr != nil {
			return commitsErr
		}
		if len(commits) == 0 {
			return c.unresolved(ref)
		}

		sha = CommitID(commits[0].ID)
		return nil
	})
	if err != nil {
		return "", err
	}

	return sha, nil
}

// Log returns up to limit commits reachable from ref, newest first.
// A limit of zero or less returns the full history.
func (a *Adapter) Log(ctx context.Context, repoPath, ref string, limit int) ([]engine.Commit, error) {
	c := call{op: "log", path: repoPath, ref: ref}
	a.logger.Debug("walking history", "path", repoPath, "ref", ref, "limit", limit)

	var commits []engine.Commit
	err := a.withRepository(ctx, c, func(repo engine.Repository) error {
		var commitsErr error
		commits, commitsErr = repo.Commits(ref, limit)
		if commitsErr != nil {
			return commitsErr
		}
		if len(commits) == 0 {
			return c.unresolved(ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

// Clone creates a new repository at dest from remote.
func (a *Adapter) Clone(ctx context.Context, remote, dest string, opts CloneOptions) error {
	c := call{op: "clone", path: dest, ref: opts.Branch}
	a.logger.Debug("cloning repository", "remote", remote, "path", dest, "bare", opts.Bare, "depth", opts.Depth)

	if remote == "" {
		return a.failed(c, c.fail(ErrInvalidArgument, "remote URL cannot be empty"))
	}
	if dest == "" {
		return a.failed(c, c.fail(ErrInvalidArgument, "destination path cannot be empty"))
	}

	err := a.engine.Clone(ctx, engine.CloneRequest{
		URL:    remote,
		Path:   dest,
		Bare:   opts.Bare,
		Branch: opts.Branch,
		Depth:  opts.Depth,
	})
	if err != nil {
		return a.failed(c, translate(c, err))
	}

	return nil
}

// Fetch updates the refs of the repository at repoPath from a remote.
// A fetch that finds nothing new succeeds.
func (a *Adapter) Fetch(ctx context.Context, repoPath string, opts FetchOptions) error {
	if opts.Remote == "" {
		opts.Remote = engine.DefaultRemote
	}

	c := call{op: "fetch", path: repoPath}
	a.logger.Debug("fetching", "path", repoPath, "options", opts.String())

	return a.withRepository(ctx, c, func(repo engine.Repository) error {
		return repo.Fetch(ctx, engine.FetchRequest{
			Remote:   opts.Remote,
			Prune:    opts.Prune,
			Depth:    opts.Depth,
			RefSpecs: opts.RefSpecs,
		})
	})
}

// withRepository opens repoPath bare, runs fn and translates any failure.
func (a *Adapter) withRepository(ctx context.Context, c call, fn func(engine.Repository) error) error {
	repo, err := a.engine.OpenBare(ctx, c.path)
	if err != nil {
		return a.failed(c, translate(c, err))
	}
	defer a.close(c, repo)

	if err := fn(repo); err != nil {
		return a.failed(c, translate(c, err))
	}

	return nil
}

// withWorkTree opens workTreePath as a working tree, runs fn and translates
// any failure.
func (a *Adapter) withWorkTree(ctx context.Context, c call, fn func(engine.WorkTree) error) error {
	wt, err := a.engine.OpenWorkTree(ctx, c.path)
	if err != nil {
		return a.failed(c, translate(c, err))
	}
	defer a.close(c, wt)

	if err := fn(wt); err != nil {
		return a.failed(c, translate(c, err))
	}

	return nil
}

func (a *Adapter) close(c call, repo engine.Repository) {
	if err := repo.Close(); err != nil {
		a.logger.Debug("closing repository handle", "op", c.op, "path", c.path, "error", err)
	}
}

// failed logs a translated failure and returns it as an error.
func (a *Adapter) failed(c call, gerr *GitError) error {
	a.logger.Debug("git operation failed", "op", c.op, "path", c.path, "error", gerr.Message)
	return gerr
}
