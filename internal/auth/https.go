package auth

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// HTTPSAuthProvider provides HTTPS authentication for git operations.
// It wraps go-git's http.BasicAuth with host pattern matching.
type HTTPSAuthProvider struct {
	// The underlying go-git auth method
	auth *http.BasicAuth

	// AllowedHosts restricts authentication to specific host patterns.
	// If empty, authentication is allowed for all HTTPS URLs.
	// Supports glob patterns like "*.github.com" or "gitlab.*".
	AllowedHosts []string
}

// NewHTTPSAuthProvider creates a new HTTPS authentication provider.
// For GitHub/GitLab OAuth tokens, pass the token as the password.
func NewHTTPSAuthProvider(username, password string) *HTTPSAuthProvider {
	if username == "" && password != "" {
		// Many providers accept the token as username with empty password
		username = password
		password = ""
	}

	return &HTTPSAuthProvider{
		auth: &http.BasicAuth{
			Username: username,
			Password: password,
		},
	}
}

// NewHTTPSTokenProvider creates an HTTPS provider for token authentication.
// Most git providers (GitHub, GitLab, Bitbucket) use the token as password.
func NewHTTPSTokenProvider(token string) *HTTPSAuthProvider {
	return &HTTPSAuthProvider{
		auth: &http.BasicAuth{
			Username: "token", // Some providers need a username
			Password: token,
		},
	}
}

// WithAllowedHosts sets the allowed hosts for this provider.
// Only URLs matching these patterns will be authenticated.
func (p *HTTPSAuthProvider) WithAllowedHosts(hosts ...string) *HTTPSAuthProvider {
	p.AllowedHosts = hosts
	return p
}

// Method returns the authentication method for the given remote URL.
// Returns nil for non-HTTPS URLs and for hosts outside AllowedHosts.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *HTTPSAuthProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	remote, err := ParseRemote(remoteURL)
	if err != nil {
		return nil, err
	}

	if remote.Scheme != "https" {
		return nil, nil
	}

	// Check host restrictions if configured
	if len(p.AllowedHosts) > 0 && !matchAnyHost(p.AllowedHosts, remote.Host) {
		return nil, nil
	}

	return p.auth, nil
}
