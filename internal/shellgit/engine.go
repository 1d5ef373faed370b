// Package shellgit implements engine.Engine by running the git command line.
//
// Every operation is a single git invocation (or a short, read-only
// preparation followed by one) executed through internal/executor with a
// fixed locale, so the diagnostics git prints on stderr can be classified
// into engine categories.
package shellgit

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/executor"
)

// Name is the engine name reported in logs.
const Name = "shell"

// Config configures the engine.
type Config struct {
	// Binary is the git executable. Defaults to "git".
	Binary string

	// MaxBlobSize is the largest blob Blob returns. Zero disables the limit.
	MaxBlobSize int64

	// Logger receives a debug record per git invocation.
	Logger *slog.Logger

	// Executor replaces the process runner, mainly for tests.
	Executor executor.Executor
}

// Engine is the git command line engine.
type Engine struct {
	cfg Config
	git executor.Executor
}

var _ engine.Engine = (*Engine)(nil)

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Binary == "" {
		cfg.Binary = "git"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	runner := cfg.Executor
	if runner == nil {
		runner = executor.New(cfg.Binary, cfg.Logger, executor.WithEnv(map[string]string{
			"LC_ALL":              "C",
			"GIT_TERMINAL_PROMPT": "0",
		}))
	}

	return &Engine{cfg: cfg, git: runner}
}

// Name implements engine.Engine.
func (e *Engine) Name() string {
	return Name
}

// Supports implements engine.Engine.
func (e *Engine) Supports(f engine.Feature) bool {
	return f == engine.FeatureCleanExcludes
}

// OpenBare implements engine.Engine.
//
//nolint:ireturn // engine contract returns interfaces
func (e *Engine) OpenBare(ctx context.Context, path string) (engine.Repository, error) {
	if err := e.checkDir(ctx, path); err != nil {
		return nil, err
	}

	if _, err := e.run(ctx, path, "rev-parse", "--git-dir"); err != nil {
		return nil, err
	}

	return &repository{engine: e, ctx: ctx, dir: path}, nil
}

// OpenWorkTree implements engine.Engine.
//
//nolint:ireturn // engine contract returns interfaces
func (e *Engine) OpenWorkTree(ctx context.Context, path string) (engine.WorkTree, error) {
	if err := e.checkDir(ctx, path); err != nil {
		return nil, engine.NoWorkTree(path, false, err)
	}

	out, err := e.run(ctx, path, "rev-parse", "--is-bare-repository")
	if err != nil {
		if f := asFailure(err); f != nil && f.Category == engine.CategoryRepositoryNotFound {
			return nil, engine.NoWorkTree(path, false, err)
		}
		return nil, err
	}

	if strings.TrimSpace(string(out)) == "true" {
		return nil, engine.NoWorkTree(path, true, nil)
	}

	if _, err := e.run(ctx, path, "rev-parse", "--show-toplevel"); err != nil {
		return nil, err
	}

	return &workTree{repository: repository{engine: e, ctx: ctx, dir: path}}, nil
}

// Clone implements engine.Engine.
func (e *Engine) Clone(ctx context.Context, req engine.CloneRequest) error {
	args := []string{"clone", "--quiet"}
	if req.Bare {
		args = append(args, "--bare")
	}
	if req.Branch != "" {
		args = append(args, "--branch", req.Branch)
	}
	if req.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(req.Depth))
	}
	args = append(args, "--", req.URL, req.Path)

	_, err := e.run(ctx, "", args...)
	return err
}

// checkDir fails with CategoryRepositoryNotFound when path is not a directory.
func (e *Engine) checkDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return engine.Classified(engine.CategoryRepositoryNotFound, err)
	}
	if !info.IsDir() {
		return &engine.Failure{
			Category: engine.CategoryRepositoryNotFound,
			Detail:   path + " is not a directory",
		}
	}

	return nil
}

// run executes git with args, in dir when set, and classifies any failure.
func (e *Engine) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	var opts []executor.Option
	if dir != "" {
		opts = append(opts, executor.WithWorkingDir(dir))
	}

	res, err := e.git.Execute(ctx, args, opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, classify(res, err)
	}

	return res.Stdout, nil
}
