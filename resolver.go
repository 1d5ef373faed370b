package gitadapter

import (
	"errors"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// CommitID is a commit SHA as reported by the engine.
type CommitID string

// String returns the SHA.
func (c CommitID) String() string {
	return string(c)
}

// ResolveInRepo resolves ref against an already-open repository handle.
//
// A ref that matches nothing, including one the engine explicitly reports as
// unresolvable, is reported as ("", false, nil) rather than an error, leaving
// the failure policy to the caller. A non-nil error means the engine itself
// failed while looking.
func ResolveInRepo(repo engine.Repository, ref string) (CommitID, bool, error) {
	commits, err := repo.Commits(ref, 1)
	if err != nil {
		var f *engine.Failure
		if errors.As(err, &f) && f.Category == engine.CategoryResolveFailed {
			return "", false, nil
		}
		return "", false, err
	}
	if len(commits) == 0 || commits[0].ID == "" {
		return "", false, nil
	}
	return CommitID(commits[0].ID), true, nil
}
