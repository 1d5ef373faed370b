// Package gogit implements engine.Engine on top of go-git.
//
// Repositories are opened through the fs.Filesystem abstraction: bare
// repositories keep their storage at the root of the path, working trees keep
// it in the .git directory below the path. The two constructions are kept in
// separate functions so a bare handle never carries a worktree.
package gogit

import (
	"context"
	"errors"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/fsbridge"
)

// Name is the engine name reported in logs.
const Name = "gogit"

// AuthProvider resolves per-URL authentication for network operations.
type AuthProvider interface {
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Config configures the engine.
type Config struct {
	// FS is the filesystem paths are resolved in. Nil means the OS filesystem.
	FS fs.Filesystem

	// StorerCacheSize is the object cache size in KiB.
	StorerCacheSize int

	// MaxBlobSize is the largest blob Blob returns. Zero disables the limit.
	MaxBlobSize int64

	// Auth is consulted for clone and fetch when set.
	Auth AuthProvider
}

// Engine is the go-git engine.
type Engine struct {
	cfg Config
}

var _ engine.Engine = (*Engine)(nil)

// New creates an Engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name implements engine.Engine.
func (e *Engine) Name() string {
	return Name
}

// Supports implements engine.Engine. go-git's clean has no exclude list.
func (e *Engine) Supports(engine.Feature) bool {
	return false
}

// OpenBare implements engine.Engine.
// A path holding a non-bare repository is opened through its .git directory,
// still without a worktree.
//
//nolint:ireturn // engine contract returns interfaces
func (e *Engine) OpenBare(ctx context.Context, path string) (engine.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := fsbridge.Scope(e.cfg.FS, path)
	if err != nil {
		return nil, err
	}

	storageFS := root
	if fsbridge.IsDir(root, git.GitDirName) {
		storageFS, err = root.Chroot(git.GitDirName)
		if err != nil {
			return nil, err
		}
	}

	repo, err := git.Open(fsbridge.NewStorage(storageFS, e.cfg.StorerCacheSize), nil)
	if err != nil {
		return nil, classify(err)
	}

	return &repository{repo: repo, cfg: e.cfg}, nil
}

// OpenWorkTree implements engine.Engine.
//
//nolint:ireturn // engine contract returns interfaces
func (e *Engine) OpenWorkTree(ctx context.Context, path string) (engine.WorkTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := fsbridge.Scope(e.cfg.FS, path)
	if err != nil {
		return nil, err
	}

	if !fsbridge.IsDir(root, git.GitDirName) {
		return nil, engine.NoWorkTree(path, looksBare(root), nil)
	}

	dotGitFS, err := root.Chroot(git.GitDirName)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(fsbridge.NewStorage(dotGitFS, e.cfg.StorerCacheSize), root)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, engine.NoWorkTree(path, false, err)
		}
		return nil, classify(err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, classify(err)
	}

	return &workTree{
		repository: repository{repo: repo, cfg: e.cfg},
		worktree:   worktree,
	}, nil
}

// Clone implements engine.Engine.
func (e *Engine) Clone(ctx context.Context, req engine.CloneRequest) error {
	root, err := fsbridge.Scope(e.cfg.FS, req.Path)
	if err != nil {
		return err
	}

	storageFS := root
	var worktreeFS gobilly.Filesystem
	if !req.Bare {
		storageFS, err = root.Chroot(git.GitDirName)
		if err != nil {
			return err
		}
		worktreeFS = root
	}

	cloneOpts := &git.CloneOptions{
		URL:          req.URL,
		Depth:        req.Depth,
		SingleBranch: req.Depth > 0,
	}
	if req.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(req.Branch)
	}

	if e.cfg.Auth != nil {
		method, authErr := e.cfg.Auth.Method(req.URL)
		if authErr != nil {
			return engine.Classified(engine.CategoryAuth, authErr)
		}
		cloneOpts.Auth = method
	}

	storage := fsbridge.NewStorage(storageFS, e.cfg.StorerCacheSize)
	if _, err := git.CloneContext(ctx, storage, worktreeFS, cloneOpts); err != nil {
		return classify(err)
	}

	return nil
}

// looksBare reports whether fsys holds bare repository storage.
func looksBare(fsys gobilly.Filesystem) bool {
	return fsbridge.Exists(fsys, "HEAD") && fsbridge.IsDir(fsys, "objects")
}
