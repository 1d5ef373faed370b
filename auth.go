package gitadapter

import (
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/auth"
)

// NewHTTPSTokenAuth returns an AuthProvider that sends token as the password
// of HTTP basic auth to HTTPS remotes. When hosts are given, only remotes on
// matching hosts ("*.github.com", "gitlab.*") are authenticated.
//
//nolint:ireturn // AuthProvider is the option type
func NewHTTPSTokenAuth(token string, hosts ...string) AuthProvider {
	return auth.NewHTTPSTokenProvider(token).WithAllowedHosts(hosts...)
}

// NewHTTPSBasicAuth returns an AuthProvider using HTTP basic auth for HTTPS
// remotes.
//
//nolint:ireturn // AuthProvider is the option type
func NewHTTPSBasicAuth(username, password string, hosts ...string) AuthProvider {
	return auth.NewHTTPSAuthProvider(username, password).WithAllowedHosts(hosts...)
}

// NewSSHKeyAuth returns an AuthProvider that authenticates SSH remotes with
// the private key at keyPath. knownHosts files, when given, replace the
// default host key verification.
//
//nolint:ireturn // AuthProvider is the option type
func NewSSHKeyAuth(keyPath, passphrase string, knownHosts ...string) (AuthProvider, error) {
	p := auth.NewSSHKeyProvider(keyPath, passphrase)
	if len(knownHosts) == 0 {
		return p, nil
	}

	if _, err := p.WithKnownHosts(knownHosts...); err != nil {
		return nil, WrapError(err, "invalid SSH configuration")
	}
	return p, nil
}

// NewSSHAgentAuth returns an AuthProvider that authenticates SSH remotes
// through the running SSH agent.
//
//nolint:ireturn // AuthProvider is the option type
func NewSSHAgentAuth() AuthProvider {
	return auth.NewSSHAgentProvider()
}

// NewCompositeAuth returns an AuthProvider that asks each provider in turn
// and uses the first method offered.
//
//nolint:ireturn // AuthProvider is the option type
func NewCompositeAuth(providers ...AuthProvider) AuthProvider {
	c := auth.NewCompositeAuthProvider()
	for _, p := range providers {
		if p != nil {
			c.AddProvider(p)
		}
	}
	return c
}
