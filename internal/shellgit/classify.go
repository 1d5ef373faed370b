package shellgit

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/executor"
)

// diagnostics maps fragments of git's stderr (LC_ALL=C) onto categories.
// The first matching entry wins.
var diagnostics = []struct {
	fragment string
	category engine.Category
}{
	{"would be overwritten by", engine.CategoryCheckoutConflict},
	{"not uptodate. cannot merge", engine.CategoryCheckoutConflict},
	{"must be run in a work tree", engine.CategoryNoWorkTree},
	{"no such remote", engine.CategoryRemoteNotFound},
	{"already exists and is not an empty directory", engine.CategoryRepositoryExists},
	{"authentication failed", engine.CategoryAuth},
	{"could not read username", engine.CategoryAuth},
	{"could not read password", engine.CategoryAuth},
	{"permission denied (publickey", engine.CategoryAuth},
	{"terminal prompts disabled", engine.CategoryAuth},
	{"not a git repository", engine.CategoryRepositoryNotFound},
	{"does not appear to be a git repository", engine.CategoryRepositoryNotFound},
	{"repository not found", engine.CategoryRepositoryNotFound},
	{"ambiguous argument", engine.CategoryRefNotFound},
	{"unknown revision", engine.CategoryRefNotFound},
	{"couldn't find remote ref", engine.CategoryRefNotFound},
	{"does not exist in", engine.CategoryPathNotFound},
	{"exists on disk, but not in", engine.CategoryPathNotFound},
}

var (
	// entryNotUptodate matches "error: Entry 'path' not uptodate. Cannot merge."
	entryNotUptodate = regexp.MustCompile(`Entry '([^']+)' not uptodate`)

	// fatalPrefix strips git's severity prefixes from diagnostics.
	fatalPrefix = regexp.MustCompile(`(?m)^(fatal|error): `)
)

// classify converts a failed git invocation into an engine failure. The
// detail is git's own diagnostic without severity prefixes.
func classify(res *executor.Result, err error) *engine.Failure {
	stderr := ""
	if res != nil {
		stderr = res.Stderr
	}

	detail := strings.TrimSpace(fatalPrefix.ReplaceAllString(stderr, ""))
	failure := &engine.Failure{Category: engine.CategoryUnknown, Detail: detail, Err: err}

	lower := strings.ToLower(stderr)
	for _, d := range diagnostics {
		if strings.Contains(lower, d.fragment) {
			failure.Category = d.category
			break
		}
	}

	if failure.Category == engine.CategoryCheckoutConflict {
		failure.Paths = conflictPaths(stderr)
	}

	return failure
}

// conflictPaths extracts the files git names in a checkout conflict. git
// lists them either one per tab-indented line or inside "Entry '...'"
// messages.
func conflictPaths(stderr string) []string {
	seen := map[string]bool{}

	for _, m := range entryNotUptodate.FindAllStringSubmatch(stderr, -1) {
		seen[m[1]] = true
	}

	for _, line := range strings.Split(stderr, "\n") {
		if strings.HasPrefix(line, "\t") {
			if p := strings.TrimSpace(line); p != "" {
				seen[p] = true
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// asFailure returns err as an engine failure, or nil.
func asFailure(err error) *engine.Failure {
	var f *engine.Failure
	if errors.As(err, &f) {
		return f
	}
	return nil
}
