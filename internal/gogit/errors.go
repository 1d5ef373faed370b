package gogit

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// categories maps go-git's sentinel errors onto engine categories.
var categories = []struct {
	err      error
	category engine.Category
}{
	{git.ErrRepositoryNotExists, engine.CategoryRepositoryNotFound},
	{transport.ErrRepositoryNotFound, engine.CategoryRepositoryNotFound},
	{transport.ErrEmptyRemoteRepository, engine.CategoryRepositoryNotFound},
	{git.ErrRepositoryAlreadyExists, engine.CategoryRepositoryExists},
	{git.ErrIsBareRepository, engine.CategoryNoWorkTree},
	{git.ErrRemoteNotFound, engine.CategoryRemoteNotFound},
	{transport.ErrAuthenticationRequired, engine.CategoryAuth},
	{transport.ErrAuthorizationFailed, engine.CategoryAuth},
	{transport.ErrInvalidAuthMethod, engine.CategoryAuth},
	{plumbing.ErrReferenceNotFound, engine.CategoryRefNotFound},
	{object.ErrFileNotFound, engine.CategoryPathNotFound},
	{git.ErrUnstagedChanges, engine.CategoryCheckoutConflict},
}

// classify tags a go-git error with its engine category. Errors go-git does
// not expose as sentinels are returned as CategoryUnknown with their message.
func classify(err error) *engine.Failure {
	if err == nil {
		return nil
	}

	var f *engine.Failure
	if errors.As(err, &f) {
		return f
	}

	for _, c := range categories {
		if errors.Is(err, c.err) {
			failure := engine.Classified(c.category, err)
			failure.Bare = c.category == engine.CategoryNoWorkTree
			return failure
		}
	}

	return engine.Classified(engine.CategoryUnknown, err)
}
