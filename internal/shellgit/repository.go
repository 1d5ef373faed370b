package shellgit

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// logFormat separates commit fields with NUL bytes, one commit per line.
const logFormat = "--format=%H%x00%an%x00%ae%x00%at%x00%s"

// repository is a handle on a repository directory.
type repository struct {
	engine *Engine
	ctx    context.Context //nolint:containedctx // handles live for a single adapter call
	dir    string
}

var _ engine.Repository = (*repository)(nil)

// Commits implements engine.Repository.
func (r *repository) Commits(ref string, limit int) ([]engine.Commit, error) {
	sha, ok, err := r.resolve(ref)
	if err != nil || !ok {
		return nil, err
	}

	args := []string{"log", logFormat}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, sha, "--")

	out, err := r.git(args...)
	if err != nil {
		return nil, err
	}

	return parseLog(out)
}

// Branches implements engine.Repository.
func (r *repository) Branches() ([]string, error) {
	out, err := r.git("for-each-ref", "--format=%(refname)", engine.HeadsPrefix)
	if err != nil {
		return nil, err
	}

	return lines(out), nil
}

// Blob implements engine.Repository.
func (r *repository) Blob(path, ref string) ([]byte, error) {
	sha, ok, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, engine.Unresolved(ref, nil)
	}

	out, err := r.git("rev-parse", "--verify", "--quiet", sha+":"+strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, &engine.Failure{
			Category: engine.CategoryPathNotFound,
			Detail:   fmt.Sprintf("%s at %s", path, ref),
			Ref:      ref,
			Err:      err,
		}
	}
	oid := strings.TrimSpace(string(out))

	// Refuse oversized objects before reading them
	if limit := r.engine.cfg.MaxBlobSize; limit > 0 {
		out, err = r.git("cat-file", "-s", oid)
		if err != nil {
			return nil, err
		}

		size, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
		if err != nil {
			return nil, engine.Classified(engine.CategoryUnknown, fmt.Errorf("parsing object size: %w", err))
		}
		if size > limit {
			return nil, engine.ObjectTooLarge(oid, limit, size)
		}
	}

	return r.git("cat-file", "blob", oid)
}

// Fetch implements engine.Repository.
func (r *repository) Fetch(ctx context.Context, req engine.FetchRequest) error {
	remote := req.Remote
	if remote == "" {
		remote = engine.DefaultRemote
	}

	if strings.HasPrefix(remote, "-") {
		return engine.Unsupported("remote", "remote name cannot start with '-': "+remote)
	}
	for _, spec := range req.RefSpecs {
		if spec == "" || strings.HasPrefix(spec, "-") {
			return engine.Unsupported("refspec", fmt.Sprintf("invalid refspec %q", spec))
		}
	}

	if _, err := r.engine.run(ctx, r.dir, "remote", "get-url", remote); err != nil {
		return err
	}

	args := []string{"fetch", "--quiet"}
	if req.Prune {
		args = append(args, "--prune")
	}
	if req.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(req.Depth))
	}
	args = append(args, "--", remote)
	args = append(args, req.RefSpecs...)

	_, err := r.engine.run(ctx, r.dir, args...)
	return err
}

// Close implements engine.Repository.
func (r *repository) Close() error {
	return nil
}

// resolve peels ref to a commit id. A ref that names no commit is reported
// as absent rather than failed.
func (r *repository) resolve(ref string) (string, bool, error) {
	if strings.HasPrefix(ref, "-") {
		return "", false, nil
	}

	out, err := r.git("rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		if f := asFailure(err); f != nil && f.Category == engine.CategoryUnknown {
			return "", false, nil
		}
		return "", false, err
	}

	return strings.TrimSpace(string(out)), true, nil
}

func (r *repository) git(args ...string) ([]byte, error) {
	return r.engine.run(r.ctx, r.dir, args...)
}

// workTree is a handle on a working tree directory.
type workTree struct {
	repository
}

var _ engine.WorkTree = (*workTree)(nil)

// Clean implements engine.WorkTree. Excludes are passed to git clean -e.
func (w *workTree) Clean(req engine.CleanRequest) error {
	args := []string{"clean", "--quiet", "--force", "-d"}
	for _, pattern := range req.Excludes {
		args = append(args, "-e", pattern)
	}

	_, err := w.git(args...)
	return err
}

// Reset implements engine.WorkTree.
func (w *workTree) Reset(sha string, mode engine.ResetMode) error {
	flag := "--mixed"
	if mode == engine.ResetHard {
		flag = "--hard"
	}

	_, err := w.git("reset", "--quiet", flag, sha)
	return err
}

// parseLog parses the output of git log with logFormat.
func parseLog(out []byte) ([]engine.Commit, error) {
	var commits []engine.Commit
	for _, line := range lines(out) {
		fields := strings.SplitN(line, "\x00", 5)
		if len(fields) != 5 {
			return nil, engine.Classified(engine.CategoryUnknown, fmt.Errorf("malformed log line %q", line))
		}

		epoch, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, engine.Classified(engine.CategoryUnknown, fmt.Errorf("malformed commit time %q: %w", fields[3], err))
		}

		commits = append(commits, engine.Commit{
			ID:      fields[0],
			Author:  fields[1],
			Email:   fields[2],
			When:    time.Unix(epoch, 0),
			Subject: fields[4],
		})
	}

	return commits, nil
}

// lines splits command output into its non-empty lines.
func lines(out []byte) []string {
	var result []string
	for _, line := range bytes.Split(out, []byte("\n")) {
		if s := strings.TrimRight(string(line), "\r"); s != "" {
			result = append(result, s)
		}
	}
	return result
}
