package gitadapter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/gogit"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/shellgit"
)

const (
	// DefaultStorerCacheSize is the default size of the LRU object cache, in KiB.
	DefaultStorerCacheSize = 1000

	// DefaultMaxBlobSize is the largest blob BlobAt returns by default.
	DefaultMaxBlobSize int64 = 50 << 20

	// DefaultGitBinary is the executable used by the shell backend.
	DefaultGitBinary = "git"
)

// Backend selects a built-in engine.
type Backend string

const (
	// BackendGoGit runs operations in-process through go-git.
	BackendGoGit Backend = "gogit"

	// BackendShell runs operations through the git command line.
	BackendShell Backend = "shell"
)

// ParseBackend converts a configuration string into a Backend.
// The empty string selects BackendGoGit.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendGoGit:
		return BackendGoGit, nil
	case BackendShell:
		return BackendShell, nil
	default:
		return "", WrapErrorf(ErrInvalidArgument, "unknown backend %q", s)
	}
}

// AuthProvider resolves authentication methods for clone and fetch.
// Only the go-git backend consults it; the shell backend relies on the
// git binary's own credential helpers.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Options configures an Adapter.
type Options struct {
	// Engine overrides the built-in backends entirely.
	Engine engine.Engine

	// Backend selects the built-in engine when Engine is nil.
	// Defaults to BackendGoGit.
	Backend Backend

	// FS is the filesystem repositories are opened from (go-git backend).
	// Paths are resolved inside it. If nil, the OS filesystem is used.
	FS fs.Filesystem

	// StorerCacheSize sets the LRU object cache size in KiB (go-git backend).
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// MaxBlobSize is the object size above which BlobAt fails with
	// ErrObjectTooLarge. Defaults to DefaultMaxBlobSize.
	MaxBlobSize int64

	// Auth resolves credentials for clone and fetch (go-git backend).
	Auth AuthProvider

	// GitBinary is the git executable (shell backend).
	// Defaults to DefaultGitBinary.
	GitBinary string

	// Logger receives debug records for each operation.
	// Defaults to a logger that discards everything.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithEngine installs a custom engine.
func WithEngine(e engine.Engine) Option {
	return func(o *Options) {
		o.Engine = e
	}
}

// WithBackend selects a built-in engine.
func WithBackend(b Backend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithFilesystem sets the filesystem repositories are opened from.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(o *Options) {
		o.FS = fsys
	}
}

// WithMaxBlobSize sets the blob size limit.
func WithMaxBlobSize(n int64) Option {
	return func(o *Options) {
		o.MaxBlobSize = n
	}
}

// WithStorerCacheSize sets the go-git object cache size.
func WithStorerCacheSize(n int) Option {
	return func(o *Options) {
		o.StorerCacheSize = n
	}
}

// WithAuth sets the authentication provider for network operations.
func WithAuth(a AuthProvider) Option {
	return func(o *Options) {
		o.Auth = a
	}
}

// WithGitBinary sets the git executable used by the shell backend.
func WithGitBinary(path string) Option {
	return func(o *Options) {
		o.GitBinary = path
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidArgument, "StorerCacheSize cannot be negative")
	}

	if o.MaxBlobSize < 0 {
		return WrapError(ErrInvalidArgument, "MaxBlobSize cannot be negative")
	}

	if o.Engine == nil {
		if _, err := ParseBackend(string(o.Backend)); err != nil {
			return err
		}
	}

	return nil
}

// applyDefaults sets default values for any unset fields and builds the
// engine when none was supplied.
func (o *Options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}

	if o.MaxBlobSize == 0 {
		o.MaxBlobSize = DefaultMaxBlobSize
	}

	if o.GitBinary == "" {
		o.GitBinary = DefaultGitBinary
	}

	if backend, err := ParseBackend(string(o.Backend)); err == nil {
		o.Backend = backend
	}

	if o.Engine != nil {
		return
	}

	switch o.Backend {
	case BackendShell:
		if o.Auth != nil {
			o.Logger.Warn("auth provider is ignored by the shell backend")
		}
		o.Engine = shellgit.New(shellgit.Config{
			Binary:      o.GitBinary,
			MaxBlobSize: o.MaxBlobSize,
			Logger:      o.Logger,
		})
	default:
		o.Engine = gogit.New(gogit.Config{
			FS:              o.FS,
			StorerCacheSize: o.StorerCacheSize,
			MaxBlobSize:     o.MaxBlobSize,
			Auth:            o.Auth,
		})
	}
}

// CleanOptions configures Clean.
type CleanOptions struct {
	// Excludes lists path patterns to keep. Engines without
	// engine.FeatureCleanExcludes reject a non-empty list.
	Excludes []string
}

// ResetOptions configures Reset.
type ResetOptions struct {
	// Hard also overwrites the working tree. Otherwise only HEAD and the
	// index move.
	Hard bool
}

// mode returns the engine reset mode for the options.
func (o ResetOptions) mode() engine.ResetMode {
	if o.Hard {
		return engine.ResetHard
	}
	return engine.ResetMixed
}

// CloneOptions configures Clone.
type CloneOptions struct {
	// Bare creates a repository without a working tree.
	Bare bool

	// Branch checks out this branch instead of the remote HEAD.
	Branch string

	// Depth > 0 creates a shallow clone.
	Depth int
}

// FetchOptions configures Fetch.
type FetchOptions struct {
	// Remote is the remote to fetch from. Defaults to "origin".
	Remote string

	// Prune removes stale remote-tracking refs.
	Prune bool

	// Depth > 0 limits the fetched history.
	Depth int

	// RefSpecs overrides the remote's configured refspecs.
	RefSpecs []string
}

// String describes the options for logging.
func (o FetchOptions) String() string {
	return fmt.Sprintf("remote=%s prune=%t depth=%d", o.Remote, o.Prune, o.Depth)
}
