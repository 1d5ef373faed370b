// Package auth resolves go-git transport.AuthMethod values for remote URLs.
// Providers decline URLs they do not handle by returning a nil method, so
// they can be chained in a CompositeAuthProvider. Host and URL patterns are
// doublestar globs.
package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Provider interface that all auth providers must implement.
// Returns go-git's transport.AuthMethod directly.
type Provider interface {
	// Method returns the appropriate transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	// Returns an error if authentication setup fails.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Remote is a parsed remote location.
type Remote struct {
	Scheme string
	User   string
	Host   string
	Path   string
}

// ParseRemote parses a remote URL. scp-like addresses such as
// git@github.com:org/repo.git are reported with the ssh scheme, and plain
// filesystem paths with the file scheme.
func ParseRemote(remoteURL string) (Remote, error) {
	if remoteURL == "" {
		return Remote{}, fmt.Errorf("empty remote URL")
	}

	if !strings.Contains(remoteURL, "://") {
		// user@host:path
		if at, colon := strings.Index(remoteURL, "@"), strings.Index(remoteURL, ":"); colon > 0 &&
			!strings.Contains(remoteURL[:colon], "/") {
			r := Remote{Scheme: "ssh", Host: remoteURL[:colon], Path: remoteURL[colon+1:]}
			if at >= 0 && at < colon {
				r.User = remoteURL[:at]
				r.Host = remoteURL[at+1 : colon]
			}
			return r, nil
		}
		return Remote{Scheme: "file", Path: remoteURL}, nil
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return Remote{}, fmt.Errorf("invalid URL: %w", err)
	}

	r := Remote{Scheme: parsed.Scheme, Host: parsed.Hostname(), Path: strings.TrimPrefix(parsed.Path, "/")}
	if parsed.User != nil {
		r.User = parsed.User.Username()
	}
	return r, nil
}

// MatchHost reports whether host matches pattern. A leading "*." also
// matches the bare domain, so "*.github.com" accepts "github.com".
func MatchHost(pattern, host string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)

	if ok, err := doublestar.Match(pattern, host); err == nil && ok {
		return true
	}

	return strings.HasPrefix(pattern, "*.") && host == strings.TrimPrefix(pattern, "*.")
}

// matchAnyHost reports whether host matches any of patterns.
func matchAnyHost(patterns []string, host string) bool {
	for _, pattern := range patterns {
		if MatchHost(pattern, host) {
			return true
		}
	}
	return false
}
