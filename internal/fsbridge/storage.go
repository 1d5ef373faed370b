package fsbridge

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// MinStorerCacheSize is used when a non-positive cache size is requested.
const MinStorerCacheSize = 100

// NewStorage creates a new git storage over billyFS with an LRU object cache
// holding cacheSize KiB of objects.
func NewStorage(billyFS billy.Filesystem, cacheSize int) *filesystem.Storage {
	if cacheSize <= 0 {
		cacheSize = MinStorerCacheSize
	}

	objCache := cache.NewObjectLRU(cache.FileSize(cacheSize) * cache.KiByte)
	return filesystem.NewStorage(billyFS, objCache)
}
