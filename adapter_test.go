package gitadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

const (
	gitDir   = "/tmp/gitadapter-test/git/git_dir.git"
	workTree = "/tmp/gitadapter-test/environments/test_env"
)

// gitErrorOf asserts err is a *GitError and returns it.
func gitErrorOf(t *testing.T, err error) *GitError {
	t.Helper()

	var gerr *GitError
	require.True(t, errors.As(err, &gerr), "expected *GitError, got %T: %v", err, err)
	return gerr
}

func TestAdapter_BlobAt(t *testing.T) {
	const blobData = "Eyes that fire and sword have seen\nAnd horror in the halls of stone\n" +
		"Look at last on meadows green\nAnd trees and hills they long have known."

	t.Run("returns blob data", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil).Twice()
		repo.On("Blob", "TheRoadGoesEverOn", "shire").Return([]byte(blobData), nil).Twice()

		data, err := a.BlobAt(context.Background(), gitDir, "shire", "TheRoadGoesEverOn")
		require.NoError(t, err)
		assert.Equal(t, blobData, string(data))

		again, err := a.BlobAt(context.Background(), gitDir, "shire", "TheRoadGoesEverOn")
		require.NoError(t, err)
		assert.Equal(t, data, again)

		assert.Equal(t, 2, repo.closed)
		repo.AssertExpectations(t)
	})

	t.Run("object exceeds limit", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Blob", "path", "branch").Return(nil, engine.ObjectTooLarge("deadbeef", 100, 1000))

		_, err := a.BlobAt(context.Background(), gitDir, "branch", "path")
		require.Error(t, err)

		gerr := gitErrorOf(t, err)
		assert.Regexp(t, `(?i)exceeds.*limit`, gerr.Error())
		assert.Equal(t, "object deadbeef exceeds 100 limit, actual size is 1000", gerr.Message)
		assert.ErrorIs(t, err, ErrObjectTooLarge)
		assert.Equal(t, "blob_at", gerr.Op)
		assert.Equal(t, gitDir, gerr.Path)
		assert.Equal(t, 1, repo.closed)
	})

	t.Run("repository cannot be opened", func(t *testing.T) {
		a, e := newMockAdapter(t)
		e.On("OpenBare", gitDir).
			Return(nil, engine.Classified(engine.CategoryRepositoryNotFound, errors.New("repository does not exist")))

		_, err := a.BlobAt(context.Background(), gitDir, "main", "README.md")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRepositoryNotFound)
		assert.Contains(t, err.Error(), "repository does not exist")
	})

	t.Run("unclassified failure keeps its message", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		raw := errors.New("zlib: invalid header")
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Blob", "path", "main").Return(nil, raw)

		_, err := a.BlobAt(context.Background(), gitDir, "main", "path")
		require.Error(t, err)

		gerr := gitErrorOf(t, err)
		assert.Equal(t, "zlib: invalid header", gerr.Message)
		assert.NotErrorIs(t, err, raw)
	})
}

func TestAdapter_BranchList(t *testing.T) {
	t.Run("strips the heads prefix in engine order", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Branches").Return([]string{
			"refs/heads/191_cache_update_fns",
			"refs/heads/195_serialize_envmap",
			"refs/heads/457_api_fixups",
		}, nil)

		branches, err := a.BranchList(context.Background(), gitDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"191_cache_update_fns", "195_serialize_envmap", "457_api_fixups"}, branches)
	})

	t.Run("nested branch names keep their slashes", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Branches").Return([]string{"refs/heads/b", "refs/heads/feature/a"}, nil)

		branches, err := a.BranchList(context.Background(), gitDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "feature/a"}, branches)
	})

	t.Run("no branches", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Branches").Return(nil, nil)

		branches, err := a.BranchList(context.Background(), gitDir)
		require.NoError(t, err)
		assert.Empty(t, branches)
	})

	t.Run("ref not found", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Branches").Return(nil, &engine.Failure{Category: engine.CategoryRefNotFound, Detail: "something failed"})

		_, err := a.BranchList(context.Background(), gitDir)
		require.Error(t, err)
		assert.Regexp(t, `something failed`, err.Error())
		assert.ErrorIs(t, err, ErrRefNotFound)
	})
}

func TestAdapter_Clean(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		wt.On("Clean", engine.CleanRequest{}).Return(nil)

		require.NoError(t, a.Clean(context.Background(), workTree, CleanOptions{}))
		wt.AssertExpectations(t)
		assert.Equal(t, 1, wt.closed)
	})

	t.Run("no working tree", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		wt.On("Clean", engine.CleanRequest{}).Return(engine.NoWorkTree(workTree, false, nil))

		err := a.Clean(context.Background(), workTree, CleanOptions{})
		require.Error(t, err)
		assert.Regexp(t, `(?i)neither a working tree.*nor an index`, err.Error())
		assert.ErrorIs(t, err, ErrNoWorkTree)
	})

	t.Run("bare repository", func(t *testing.T) {
		a, e := newMockAdapter(t)
		e.On("OpenWorkTree", gitDir).Return(nil, engine.NoWorkTree(gitDir, true, nil))

		err := a.Clean(context.Background(), gitDir, CleanOptions{})
		require.Error(t, err)
		assert.Equal(t, "Bare Repository has neither a working tree, nor an index", err.Error())
	})

	t.Run("excludes rejected before opening", func(t *testing.T) {
		a, e := newMockAdapter(t)
		e.On("Supports", engine.FeatureCleanExcludes).Return(false)

		err := a.Clean(context.Background(), workTree, CleanOptions{Excludes: []string{"modules/"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedOption)
		assert.Contains(t, err.Error(), "excludes")
		e.AssertNotCalled(t, "OpenWorkTree", mock.Anything)
	})

	t.Run("excludes passed to a capable engine", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("Supports", engine.FeatureCleanExcludes).Return(true)
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		wt.On("Clean", engine.CleanRequest{Excludes: []string{"modules/"}}).Return(nil)

		require.NoError(t, a.Clean(context.Background(), workTree, CleanOptions{Excludes: []string{"modules/"}}))
		wt.AssertExpectations(t)
	})
}

func TestAdapter_Reset(t *testing.T) {
	resolvesTo := func(wt *mockWorkTree, sha string) {
		commits := []engine.Commit{}
		if sha != "" {
			commits = append(commits, engine.Commit{ID: sha})
		}
		wt.On("Commits", "testref", 1).Return(commits, nil)
	}

	t.Run("success uses the default mode", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		resolvesTo(wt, "testsha")
		wt.On("Reset", "testsha", engine.ResetMixed).Return(nil)

		require.NoError(t, a.Reset(context.Background(), workTree, "testref", ResetOptions{}))
		wt.AssertExpectations(t)
		assert.Equal(t, 1, wt.closed)
	})

	t.Run("unresolvable ref never resets", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		resolvesTo(wt, "")

		err := a.Reset(context.Background(), workTree, "testref", ResetOptions{Hard: true})
		require.Error(t, err)
		assert.Regexp(t, `(?i)could not resolve`, err.Error())
		assert.ErrorIs(t, err, ErrResolveFailed)
		assert.Equal(t, "testref", gitErrorOf(t, err).Ref)
		wt.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	})

	t.Run("engine resolution failure never resets", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		wt.On("Commits", "testref", 1).Return(nil, engine.Unresolved("testref", nil))

		err := a.Reset(context.Background(), workTree, "testref", ResetOptions{})
		require.Error(t, err)
		assert.Regexp(t, `(?i)could not resolve`, err.Error())
		wt.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure never resets", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		wt.On("Commits", "testref", 1).Return(nil, errors.New("index.lock exists"))

		err := a.Reset(context.Background(), workTree, "testref", ResetOptions{})
		require.Error(t, err)
		assert.Equal(t, "index.lock exists", err.Error())
		wt.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	})

	t.Run("checkout conflict", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		resolvesTo(wt, "testsha")
		wt.On("Reset", "testsha", engine.ResetMixed).
			Return(engine.CheckoutConflict([]string{"/foo/bar"}, errors.New("/foo/bar")))

		err := a.Reset(context.Background(), workTree, "testref", ResetOptions{})
		require.Error(t, err)
		assert.Regexp(t, `(?i)conflict with file`, err.Error())
		assert.Contains(t, err.Error(), "/foo/bar")
		assert.ErrorIs(t, err, ErrCheckoutConflict)
	})

	t.Run("hard", func(t *testing.T) {
		a, e := newMockAdapter(t)
		wt := &mockWorkTree{}
		e.On("OpenWorkTree", workTree).Return(wt, nil)
		resolvesTo(wt, "testsha")
		wt.On("Reset", "testsha", engine.ResetHard).Return(nil)

		require.NoError(t, a.Reset(context.Background(), workTree, "testref", ResetOptions{Hard: true}))
		wt.AssertExpectations(t)
		assert.Equal(t, "HARD", engine.ResetHard.String())
		assert.NotEqual(t, ResetOptions{}.mode(), ResetOptions{Hard: true}.mode())
	})
}

func TestAdapter_ResolveCommit(t *testing.T) {
	t.Run("returns the sha", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Commits", "branch_name", 1).Return([]engine.Commit{{ID: "123abc"}}, nil)

		sha, err := a.ResolveCommit(context.Background(), gitDir, "branch_name")
		require.NoError(t, err)
		assert.Equal(t, CommitID("123abc"), sha)
	})

	t.Run("no commits", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Commits", "branch_name", 1).Return([]engine.Commit{}, nil)

		_, err := a.ResolveCommit(context.Background(), gitDir, "branch_name")
		require.Error(t, err)
		assert.Regexp(t, `(?i)could not resolve`, err.Error())
		assert.ErrorIs(t, err, ErrResolveFailed)
	})
}

func TestAdapter_Log(t *testing.T) {
	t.Run("returns commits", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Commits", "main", 5).Return([]engine.Commit{{ID: "b"}, {ID: "a"}}, nil)

		commits, err := a.Log(context.Background(), gitDir, "main", 5)
		require.NoError(t, err)
		assert.Len(t, commits, 2)
	})

	t.Run("unresolvable ref", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Commits", "nope", 0).Return(nil, nil)

		_, err := a.Log(context.Background(), gitDir, "nope", 0)
		assert.ErrorIs(t, err, ErrResolveFailed)
	})
}

func TestAdapter_Clone(t *testing.T) {
	const remote = "https://example.com/puppet/control.git"

	t.Run("validates arguments", func(t *testing.T) {
		a, e := newMockAdapter(t)

		err := a.Clone(context.Background(), "", gitDir, CloneOptions{})
		assert.ErrorIs(t, err, ErrInvalidArgument)

		err = a.Clone(context.Background(), remote, "", CloneOptions{})
		assert.ErrorIs(t, err, ErrInvalidArgument)

		e.AssertNotCalled(t, "Clone", mock.Anything)
	})

	t.Run("passes options to the engine", func(t *testing.T) {
		a, e := newMockAdapter(t)
		e.On("Clone", engine.CloneRequest{URL: remote, Path: gitDir, Bare: true, Branch: "production", Depth: 1}).
			Return(nil)

		require.NoError(t, a.Clone(context.Background(), remote, gitDir, CloneOptions{Bare: true, Branch: "production", Depth: 1}))
	})

	t.Run("existing destination", func(t *testing.T) {
		a, e := newMockAdapter(t)
		e.On("Clone", mock.Anything).
			Return(engine.Classified(engine.CategoryRepositoryExists, errors.New("repository already exists")))

		err := a.Clone(context.Background(), remote, gitDir, CloneOptions{})
		assert.ErrorIs(t, err, ErrRepositoryExists)
		assert.Contains(t, err.Error(), gitDir)
	})

	t.Run("authentication", func(t *testing.T) {
		a, e := newMockAdapter(t)
		e.On("Clone", mock.Anything).
			Return(engine.Classified(engine.CategoryAuth, errors.New("authentication required")))

		err := a.Clone(context.Background(), remote, gitDir, CloneOptions{})
		assert.ErrorIs(t, err, ErrAuthFailed)
		assert.Equal(t, "authentication failed: authentication required", err.Error())
	})
}

func TestAdapter_Fetch(t *testing.T) {
	t.Run("defaults to origin", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Fetch", engine.FetchRequest{Remote: "origin", Prune: true}).Return(nil)

		require.NoError(t, a.Fetch(context.Background(), gitDir, FetchOptions{Prune: true}))
		repo.AssertExpectations(t)
	})

	t.Run("unknown remote", func(t *testing.T) {
		a, e := newMockAdapter(t)
		repo := &mockRepository{}
		e.On("OpenBare", gitDir).Return(repo, nil)
		repo.On("Fetch", engine.FetchRequest{Remote: "upstream"}).
			Return(engine.Classified(engine.CategoryRemoteNotFound, errors.New("remote not found")))

		err := a.Fetch(context.Background(), gitDir, FetchOptions{Remote: "upstream"})
		assert.ErrorIs(t, err, ErrRemoteNotFound)
	})
}

func TestNew(t *testing.T) {
	t.Run("default backend", func(t *testing.T) {
		a, err := New()
		require.NoError(t, err)
		assert.Equal(t, "gogit", a.Engine().Name())
	})

	t.Run("shell backend", func(t *testing.T) {
		a, err := New(WithBackend(BackendShell))
		require.NoError(t, err)
		assert.Equal(t, "shell", a.Engine().Name())
	})

	t.Run("backend names are case insensitive", func(t *testing.T) {
		for _, name := range []Backend{"SHELL", "Shell", " shell "} {
			a, err := New(WithBackend(name))
			require.NoError(t, err)
			assert.Equal(t, "shell", a.Engine().Name(), "backend %q", name)
			assert.True(t, a.Engine().Supports(engine.FeatureCleanExcludes))
		}

		a, err := New(WithBackend("GoGit"))
		require.NoError(t, err)
		assert.Equal(t, "gogit", a.Engine().Name())
	})

	t.Run("custom engine wins", func(t *testing.T) {
		e := &mockEngine{}
		a, err := New(WithEngine(e), WithBackend(BackendShell))
		require.NoError(t, err)
		assert.Same(t, e, a.Engine())
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(WithMaxBlobSize(-1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "invalid options")
	})
}
