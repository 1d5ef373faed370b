// Package gitadapter exposes a small, fixed set of Git operations over
// repositories identified by filesystem path: reading a blob at a ref,
// listing branches, resolving a ref to a commit, walking history, cleaning
// and resetting working trees, and cloning and fetching.
//
// The operations are served by an engine (see package engine). Two are
// built in: a go-git engine that runs in-process and a shell engine that
// drives the git binary. Whatever the engine, every failure an Adapter
// method returns is a *GitError whose message is normalized and whose
// category can be tested with errors.Is against the Err* sentinels:
//
//	data, err := a.BlobAt(ctx, "/srv/git/control.git", "production", "Puppetfile")
//	if errors.Is(err, gitadapter.ErrObjectTooLarge) {
//		...
//	}
//
// Introspection (BlobAt, BranchList, ResolveCommit, Log, Fetch) opens the
// repository without a working tree. Mutations (Clean, Reset) open a working
// tree and fail with ErrNoWorkTree on a bare repository.
package gitadapter
