package gitadapter

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the category of a *GitError.
// Check them with errors.Is; the concrete type returned is always *GitError.
var (
	// ErrObjectTooLarge is returned when a blob exceeds the configured size limit.
	ErrObjectTooLarge = errors.New("object too large")

	// ErrRefNotFound is returned when the engine cannot find a ref namespace.
	ErrRefNotFound = errors.New("ref not found")

	// ErrNoWorkTree is returned when a working tree operation targets a path
	// that has neither a working tree nor an index.
	ErrNoWorkTree = errors.New("no working tree")

	// ErrCheckoutConflict is returned when local modifications block a reset.
	ErrCheckoutConflict = errors.New("checkout conflict")

	// ErrResolveFailed is returned when a ref does not resolve to a commit.
	ErrResolveFailed = errors.New("cannot resolve revision")

	// ErrUnsupportedOption is returned when the engine cannot honour an option.
	ErrUnsupportedOption = errors.New("unsupported option")

	// ErrRepositoryNotFound is returned when no repository exists at a path or URL.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrRepositoryExists is returned when a clone destination already holds a repository.
	ErrRepositoryExists = errors.New("repository already exists")

	// ErrRemoteNotFound is returned when a fetch names an unknown remote.
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrAuthFailed is returned when the remote required or rejected credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPathNotFound is returned when a path does not exist at the requested ref.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidArgument is returned for malformed adapter input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// GitError is the single error type surfaced by Adapter operations.
// Message is human-readable and stable for the translated categories;
// unclassified engine failures carry the engine's message verbatim.
type GitError struct {
	// Op is the adapter operation that failed (e.g. "reset").
	Op string

	// Path is the repository or working tree path the operation targeted.
	Path string

	// Ref is the ref involved, when there is one.
	Ref string

	// Message is the normalized description.
	Message string

	kind error
}

// Error implements error.
func (e *GitError) Error() string {
	return e.Message
}

// Unwrap exposes the category sentinel so errors.Is works. The engine's own
// error is not reachable.
func (e *GitError) Unwrap() error {
	return e.kind
}

// newGitError builds a GitError for op with a formatted message.
func newGitError(op string, kind error, format string, args ...any) *GitError {
	return &GitError{
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		kind:    kind,
	}
}

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
