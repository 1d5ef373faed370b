package gitadapter

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
)

// CacheRefSpecs mirror every branch and tag of the remote into the cached
// repository's own namespaces.
var CacheRefSpecs = []string{
	"+refs/heads/*:refs/heads/*",
	"+refs/tags/*:refs/tags/*",
}

// unsafePathChars matches characters that may not appear in a cache entry name.
var unsafePathChars = regexp.MustCompile(`[^@\w.-]`)

// DefaultCacheDir returns the directory bare mirrors are kept in by default.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "gitadapter")
}

// Cache keeps bare mirrors of remote repositories in a directory, one entry
// per remote URL. Entries are created and refreshed through an Adapter, so
// every failure is a *GitError.
type Cache struct {
	adapter *Adapter
	dir     string
}

// NewCache creates a Cache rooted at dir. An empty dir selects
// DefaultCacheDir.
func NewCache(a *Adapter, dir string) *Cache {
	if dir == "" {
		dir = DefaultCacheDir()
	}

	return &Cache{adapter: a, dir: dir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns where the mirror of remote is kept. Characters other than
// letters, digits, '@', '.', '_' and '-' are replaced with '-'.
func (c *Cache) Path(remote string) string {
	return filepath.Join(c.dir, unsafePathChars.ReplaceAllString(remote, "-"))
}

// Sync brings the mirror of remote up to date and returns its path. A remote
// without a mirror yet is cloned bare; an existing mirror is fetched with
// pruning.
func (c *Cache) Sync(ctx context.Context, remote string) (string, error) {
	if remote == "" {
		return "", newGitError("cache_sync", ErrInvalidArgument, "remote URL cannot be empty")
	}

	path := c.Path(remote)
	logger := c.adapter.logger.With("remote", remote, "path", path)

	err := c.adapter.Fetch(ctx, path, FetchOptions{Prune: true, RefSpecs: CacheRefSpecs})
	switch {
	case err == nil:
		logger.Debug("cache entry updated")
		return path, nil
	case !errors.Is(err, ErrRepositoryNotFound):
		return "", err
	}

	logger.Debug("creating cache entry")
	if err := c.adapter.Clone(ctx, remote, path, CloneOptions{Bare: true}); err != nil {
		return "", err
	}

	return path, nil
}
