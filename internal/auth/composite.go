package auth

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// ProviderConfig configures a provider with URL pattern matching.
type ProviderConfig struct {
	// Provider is the authentication provider to use.
	Provider Provider

	// URLPatterns are URL patterns this provider should handle, such as
	// "https://*.github.com/**" or "ssh://gitlab.*". A pattern without a
	// path matches every path on the host.
	// If empty, this provider will be tried for all URLs.
	URLPatterns []string
}

// CompositeAuthProvider combines multiple authentication providers with fallback support.
// It tries providers in order until one successfully provides authentication for a URL.
type CompositeAuthProvider struct {
	// Providers is the ordered list of providers to try.
	Providers []ProviderConfig

	// ContinueOnError determines whether to continue trying other providers
	// if a provider returns an error, or stop immediately.
	ContinueOnError bool
}

// NewCompositeAuthProvider creates a new composite authentication provider.
func NewCompositeAuthProvider() *CompositeAuthProvider {
	return &CompositeAuthProvider{
		ContinueOnError: true,
	}
}

// AddProvider adds a provider to the fallback chain.
// URLPatterns can be used to restrict this provider to specific URL patterns.
func (c *CompositeAuthProvider) AddProvider(provider Provider, urlPatterns ...string) *CompositeAuthProvider {
	c.Providers = append(c.Providers, ProviderConfig{
		Provider:    provider,
		URLPatterns: urlPatterns,
	})
	return c
}

// SetContinueOnError configures error handling strategy.
func (c *CompositeAuthProvider) SetContinueOnError(continueOnError bool) *CompositeAuthProvider {
	c.ContinueOnError = continueOnError
	return c
}

// Method returns the appropriate authentication method for the given remote URL.
// It tries each configured provider in order until one provides authentication.
//
//nolint:ireturn // transport.AuthMethod is an interface required by go-git
func (c *CompositeAuthProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	if len(c.Providers) == 0 {
		return nil, fmt.Errorf("no authentication providers configured")
	}

	remote, err := ParseRemote(remoteURL)
	if err != nil {
		return nil, err
	}

	var lastError error

	for i, config := range c.Providers {
		// Check if this provider should handle this URL
		if !shouldTryProvider(remote, config.URLPatterns) {
			continue
		}

		method, err := config.Provider.Method(remoteURL)
		if err != nil {
			lastError = fmt.Errorf("provider %d failed: %w", i, err)
			if !c.ContinueOnError {
				return nil, lastError
			}
			continue
		}

		if method != nil {
			return method, nil
		}
		// nil method means provider declined this URL, try next
	}

	if lastError != nil {
		return nil, lastError
	}

	return nil, nil
}

// shouldTryProvider checks if a provider should be tried for the given remote.
func shouldTryProvider(remote Remote, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		if matchesURLPattern(remote, pattern) {
			return true
		}
	}
	return false
}

// matchesURLPattern checks if a remote matches a URL pattern. The scheme
// must match exactly when the pattern has one; host and path are globs.
func matchesURLPattern(remote Remote, pattern string) bool {
	scheme, rest, hasScheme := strings.Cut(pattern, "://")
	if !hasScheme {
		rest = pattern
	} else if scheme != remote.Scheme {
		return false
	}

	hostPattern, pathPattern, hasPath := strings.Cut(rest, "/")
	if _, h, ok := strings.Cut(hostPattern, "@"); ok {
		hostPattern = h
	}

	if hostPattern != "" && !MatchHost(hostPattern, remote.Host) {
		return false
	}

	if !hasPath || pathPattern == "" {
		return true
	}

	ok, err := doublestar.Match(pathPattern, remote.Path)
	return err == nil && ok
}
