// Package fsbridge provides adapters between fs.Filesystem and billy.Filesystem.
// It lets the go-git engine open repositories from either the OS filesystem
// or any billy-backed fs.Filesystem, such as the in-memory one used in tests.
package fsbridge

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	fsb "github.com/input-output-hk/catalyst-forge-libs/fs/billy"
)

// ToBillyFilesystem converts an fs.Filesystem to a billy.Filesystem.
// The passed filesystem must be a billy.FS wrapper from the fs/billy package.
//
//nolint:ireturn // returns interface as required by billy.Filesystem interface
func ToBillyFilesystem(fsys fs.Filesystem) (billy.Filesystem, error) {
	billyFS, ok := fsys.(*fsb.FS)
	if !ok {
		return nil, fmt.Errorf("filesystem must be a billy.FS from fs/billy package, got %T", fsys)
	}

	return billyFS.Raw(), nil
}

// Scope returns a billy.Filesystem rooted at path.
// With a nil root the OS filesystem is used and path is taken as-is.
// Otherwise path is resolved inside root.
//
//nolint:ireturn // returns interface as required by billy.Filesystem interface
func Scope(root fs.Filesystem, path string) (billy.Filesystem, error) {
	if root == nil {
		return fsb.NewOSFS(path).Raw(), nil
	}

	billyFS, err := ToBillyFilesystem(root)
	if err != nil {
		return nil, err
	}

	scoped, err := billyFS.Chroot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to chroot to %q: %w", path, err)
	}

	return scoped, nil
}

// IsDir reports whether name exists in fsys and is a directory.
func IsDir(fsys billy.Filesystem, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// Exists reports whether name exists in fsys.
func Exists(fsys billy.Filesystem, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
