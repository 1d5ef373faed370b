package engine

import (
	"fmt"
	"strings"
)

// Category classifies an engine failure. The set is closed: engines map
// everything they can recognise onto one of these values and leave the rest
// as CategoryUnknown.
type Category int

const (
	// CategoryUnknown is a failure the engine could not classify.
	CategoryUnknown Category = iota

	// CategoryObjectTooLarge means an object exceeds the configured size limit.
	CategoryObjectTooLarge

	// CategoryRefNotFound means a reference namespace or ref lookup failed.
	CategoryRefNotFound

	// CategoryNoWorkTree means the path has no working tree or index.
	CategoryNoWorkTree

	// CategoryCheckoutConflict means local modifications block a checkout.
	CategoryCheckoutConflict

	// CategoryResolveFailed means a revision did not resolve to a commit.
	CategoryResolveFailed

	// CategoryUnsupported means the engine cannot honour a requested option.
	CategoryUnsupported

	// CategoryRepositoryNotFound means no repository exists at the location.
	CategoryRepositoryNotFound

	// CategoryRepositoryExists means a clone destination is already a repository.
	CategoryRepositoryExists

	// CategoryRemoteNotFound means the named remote is not configured.
	CategoryRemoteNotFound

	// CategoryAuth means authentication was required or rejected.
	CategoryAuth

	// CategoryPathNotFound means a path does not exist in the requested tree.
	CategoryPathNotFound
)

// String returns a short name for the category.
func (c Category) String() string {
	switch c {
	case CategoryObjectTooLarge:
		return "object-too-large"
	case CategoryRefNotFound:
		return "ref-not-found"
	case CategoryNoWorkTree:
		return "no-working-tree"
	case CategoryCheckoutConflict:
		return "checkout-conflict"
	case CategoryResolveFailed:
		return "resolution-failure"
	case CategoryUnsupported:
		return "unsupported"
	case CategoryRepositoryNotFound:
		return "repository-not-found"
	case CategoryRepositoryExists:
		return "repository-exists"
	case CategoryRemoteNotFound:
		return "remote-not-found"
	case CategoryAuth:
		return "auth"
	case CategoryPathNotFound:
		return "path-not-found"
	default:
		return "unknown"
	}
}

// Failure is the tagged error type engines return.
//
// Only the fields relevant to the category are populated: Object, Limit and
// Size for CategoryObjectTooLarge, Paths for CategoryCheckoutConflict, Ref for
// CategoryResolveFailed, Option for CategoryUnsupported.
type Failure struct {
	Category Category

	// Detail is the engine's own description of the problem.
	Detail string

	Object string
	Limit  int64
	Size   int64
	Paths  []string
	Ref    string
	Option string
	Bare   bool

	// Err is the underlying engine error, if any.
	Err error
}

// Error implements error.
func (f *Failure) Error() string {
	if f.Detail != "" {
		return f.Detail
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return f.Category.String()
}

// Unwrap returns the underlying engine error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// ObjectTooLarge builds a CategoryObjectTooLarge failure.
func ObjectTooLarge(object string, limit, size int64) *Failure {
	return &Failure{
		Category: CategoryObjectTooLarge,
		Detail:   fmt.Sprintf("object %s exceeds %d limit, actual size is %d", object, limit, size),
		Object:   object,
		Limit:    limit,
		Size:     size,
	}
}

// CheckoutConflict builds a CategoryCheckoutConflict failure for paths.
func CheckoutConflict(paths []string, err error) *Failure {
	return &Failure{
		Category: CategoryCheckoutConflict,
		Detail:   "checkout conflict: " + strings.Join(paths, ", "),
		Paths:    paths,
		Err:      err,
	}
}

// NoWorkTree builds a CategoryNoWorkTree failure. bare records that the path
// holds a bare repository rather than nothing at all.
func NoWorkTree(path string, bare bool, err error) *Failure {
	return &Failure{
		Category: CategoryNoWorkTree,
		Detail:   fmt.Sprintf("%s is not a working tree", path),
		Bare:     bare,
		Err:      err,
	}
}

// Unresolved builds a CategoryResolveFailed failure for ref.
func Unresolved(ref string, err error) *Failure {
	return &Failure{
		Category: CategoryResolveFailed,
		Detail:   fmt.Sprintf("revision %s not found", ref),
		Ref:      ref,
		Err:      err,
	}
}

// Unsupported builds a CategoryUnsupported failure for option.
func Unsupported(option, detail string) *Failure {
	return &Failure{
		Category: CategoryUnsupported,
		Detail:   detail,
		Option:   option,
	}
}

// Classified wraps err with category, keeping err's message as the detail.
func Classified(category Category, err error) *Failure {
	f := &Failure{Category: category, Err: err}
	if err != nil {
		f.Detail = err.Error()
	}
	return f
}
