// Package engine defines the contract between the adapter and a concrete Git
// implementation.
//
// An Engine opens repositories in one of two modes. OpenBare returns a
// Repository, which only exposes object and ref introspection. OpenWorkTree
// returns a WorkTree, which additionally exposes checkout-affecting mutations.
// Callers that only hold a Repository cannot mutate a working tree.
//
// Engines report failures as *Failure values tagged with a Category from a
// closed set. Errors of any other type are treated as unclassified.
package engine

import (
	"context"
	"time"
)

// HeadsPrefix is the namespace of local branch references.
const HeadsPrefix = "refs/heads/"

// DefaultRemote is the remote used when a fetch does not name one.
const DefaultRemote = "origin"

// Engine opens repository handles and creates new repositories.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string

	// Supports reports whether the engine implements an optional feature.
	Supports(f Feature) bool

	// OpenBare opens the repository at path for metadata and object access.
	// No working tree is attached to the returned handle.
	OpenBare(ctx context.Context, path string) (Repository, error)

	// OpenWorkTree opens the working tree rooted at path.
	OpenWorkTree(ctx context.Context, path string) (WorkTree, error)

	// Clone creates a new repository at req.Path from req.URL.
	Clone(ctx context.Context, req CloneRequest) error
}

// Repository is a handle on a repository opened for introspection.
type Repository interface {
	// Commits walks history starting at ref, newest first, returning at most
	// limit entries (all when limit <= 0). An unresolvable ref yields an empty
	// slice and a nil error.
	Commits(ref string, limit int) ([]Commit, error)

	// Branches returns the full names of local branch references in the
	// order the engine reports them.
	Branches() ([]string, error)

	// Blob returns the content of path as recorded at ref.
	Blob(path, ref string) ([]byte, error)

	// Fetch updates the repository's refs from a remote.
	Fetch(ctx context.Context, req FetchRequest) error

	// Close releases the handle.
	Close() error
}

// WorkTree is a handle on a checked-out working tree.
type WorkTree interface {
	Repository

	// Clean removes untracked files and directories.
	Clean(req CleanRequest) error

	// Reset moves HEAD to sha and rewrites the index, and the working tree
	// too when mode is ResetHard.
	Reset(sha string, mode ResetMode) error
}

// Feature names an optional engine capability.
type Feature int

const (
	// FeatureCleanExcludes means Clean honours CleanRequest.Excludes.
	FeatureCleanExcludes Feature = iota + 1
)

// String returns a human-readable name for the feature.
func (f Feature) String() string {
	switch f {
	case FeatureCleanExcludes:
		return "clean-excludes"
	default:
		return "unknown"
	}
}

// ResetMode selects how much state a reset rewrites.
type ResetMode int

const (
	// ResetMixed rewrites HEAD and the index but leaves working files alone.
	ResetMixed ResetMode = iota

	// ResetHard rewrites HEAD, the index and the working tree.
	ResetHard
)

// String returns the git name of the reset mode.
func (m ResetMode) String() string {
	switch m {
	case ResetMixed:
		return "MIXED"
	case ResetHard:
		return "HARD"
	default:
		return "UNKNOWN"
	}
}

// Commit is a single entry of a commit walk.
type Commit struct {
	ID      string
	Author  string
	Email   string
	When    time.Time
	Subject string
}

// CleanRequest configures a working tree clean.
type CleanRequest struct {
	// Excludes lists path patterns that must survive the clean.
	Excludes []string
}

// CloneRequest configures a clone.
type CloneRequest struct {
	// URL is the source repository (remote URL or local path).
	URL string

	// Path is the destination directory.
	Path string

	// Bare clones without a working tree.
	Bare bool

	// Branch checks out (and for shallow clones, limits to) this branch.
	Branch string

	// Depth > 0 requests a shallow clone.
	Depth int
}

// FetchRequest configures a fetch.
type FetchRequest struct {
	// Remote is the remote name; DefaultRemote when empty.
	Remote string

	// Prune removes remote-tracking refs that no longer exist upstream.
	Prune bool

	// Depth > 0 limits the fetched history.
	Depth int

	// RefSpecs overrides the remote's configured refspecs.
	RefSpecs []string
}
