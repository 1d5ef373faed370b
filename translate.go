package gitadapter

import (
	"errors"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// call identifies the adapter operation a failure belongs to.
type call struct {
	op   string
	path string
	ref  string
}

// translate converts any error raised while serving c into a *GitError.
// engine.Failure values are dispatched on their category; everything else
// keeps its original message.
func translate(c call, err error) *GitError {
	if err == nil {
		return nil
	}

	var gerr *GitError
	if errors.As(err, &gerr) {
		return gerr
	}

	var f *engine.Failure
	if !errors.As(err, &f) {
		return c.fail(nil, "%s", err.Error())
	}

	switch f.Category {
	case engine.CategoryObjectTooLarge:
		return c.fail(ErrObjectTooLarge, "object %s exceeds %d limit, actual size is %d", f.Object, f.Limit, f.Size)
	case engine.CategoryRefNotFound:
		return c.fail(ErrRefNotFound, "%s", f.Error())
	case engine.CategoryNoWorkTree:
		if f.Bare {
			return c.fail(ErrNoWorkTree, "Bare Repository has neither a working tree, nor an index")
		}
		return c.fail(ErrNoWorkTree, "%s has neither a working tree, nor an index", c.path)
	case engine.CategoryCheckoutConflict:
		switch len(f.Paths) {
		case 0:
			return c.fail(ErrCheckoutConflict, "checkout conflict with file: %s", f.Error())
		case 1:
			return c.fail(ErrCheckoutConflict, "checkout conflict with file: %s", f.Paths[0])
		default:
			return c.fail(ErrCheckoutConflict, "checkout conflict with files: %s", strings.Join(f.Paths, ", "))
		}
	case engine.CategoryResolveFailed:
		ref := f.Ref
		if ref == "" {
			ref = c.ref
		}
		return c.unresolved(ref)
	case engine.CategoryUnsupported:
		return c.fail(ErrUnsupportedOption, "unsupported option %s: %s", f.Option, f.Error())
	case engine.CategoryRepositoryNotFound:
		return c.fail(ErrRepositoryNotFound, "repository not found at %s: %s", c.path, f.Error())
	case engine.CategoryRepositoryExists:
		return c.fail(ErrRepositoryExists, "repository already exists at %s", c.path)
	case engine.CategoryRemoteNotFound:
		return c.fail(ErrRemoteNotFound, "remote not found: %s", f.Error())
	case engine.CategoryAuth:
		return c.fail(ErrAuthFailed, "authentication failed: %s", f.Error())
	case engine.CategoryPathNotFound:
		return c.fail(ErrPathNotFound, "path not found: %s", f.Error())
	default:
		return c.fail(nil, "%s", f.Error())
	}
}

// unresolved is the error for a ref that yields no commit.
func (c call) unresolved(ref string) *GitError {
	gerr := c.fail(ErrResolveFailed, "could not resolve ref %s", ref)
	gerr.Ref = ref
	return gerr
}

func (c call) fail(kind error, format string, args ...any) *GitError {
	gerr := newGitError(c.op, kind, format, args...)
	gerr.Path = c.path
	gerr.Ref = c.ref
	return gerr
}
