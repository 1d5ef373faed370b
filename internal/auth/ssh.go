package auth

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// SSHAuthProvider provides SSH authentication for git operations.
// It wraps go-git's SSH auth methods with host pattern matching.
type SSHAuthProvider struct {
	// PrivateKeyPath is the path to the SSH private key file.
	PrivateKeyPath string

	// PrivateKey contains the SSH private key as bytes.
	PrivateKey []byte

	// Passphrase for encrypted private keys.
	Passphrase string

	// Username for SSH authentication (defaults to "git").
	// A user given in the remote URL takes precedence.
	Username string

	// UseSSHAgent enables SSH agent integration.
	UseSSHAgent bool

	// HostKeyCallback for host key verification (optional).
	// If nil, go-git's default known_hosts verification applies.
	HostKeyCallback gossh.HostKeyCallback

	// AllowedHosts restricts authentication to specific host patterns.
	// If empty, authentication is allowed for all SSH URLs.
	AllowedHosts []string
}

// NewSSHKeyProvider creates an SSH provider using a private key file.
func NewSSHKeyProvider(keyPath, passphrase string) *SSHAuthProvider {
	return &SSHAuthProvider{
		PrivateKeyPath: keyPath,
		Passphrase:     passphrase,
		Username:       "git",
	}
}

// NewSSHKeyBytesProvider creates an SSH provider using private key bytes.
func NewSSHKeyBytesProvider(keyBytes []byte, passphrase string) *SSHAuthProvider {
	return &SSHAuthProvider{
		PrivateKey: keyBytes,
		Passphrase: passphrase,
		Username:   "git",
	}
}

// NewSSHAgentProvider creates an SSH provider that uses SSH agent.
func NewSSHAgentProvider() *SSHAuthProvider {
	return &SSHAuthProvider{
		UseSSHAgent: true,
		Username:    "git",
	}
}

// WithUsername sets the SSH username (default is "git").
func (p *SSHAuthProvider) WithUsername(username string) *SSHAuthProvider {
	p.Username = username
	return p
}

// WithHostKeyCallback sets the host key verification callback.
func (p *SSHAuthProvider) WithHostKeyCallback(callback gossh.HostKeyCallback) *SSHAuthProvider {
	p.HostKeyCallback = callback
	return p
}

// WithKnownHosts verifies host keys against the given known_hosts files.
func (p *SSHAuthProvider) WithKnownHosts(files ...string) (*SSHAuthProvider, error) {
	callback, err := ssh.NewKnownHostsCallback(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}
	p.HostKeyCallback = callback
	return p, nil
}

// WithAllowedHosts sets the allowed hosts for this provider.
func (p *SSHAuthProvider) WithAllowedHosts(hosts ...string) *SSHAuthProvider {
	p.AllowedHosts = hosts
	return p
}

// Method returns the authentication method for the given remote URL.
// Returns nil for non-SSH URLs and for hosts outside AllowedHosts.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSHAuthProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	remote, err := ParseRemote(remoteURL)
	if err != nil {
		return nil, err
	}

	if !isSupportedScheme(remote.Scheme) {
		return nil, nil
	}

	// Check host restrictions if configured
	if len(p.AllowedHosts) > 0 && !matchAnyHost(p.AllowedHosts, remote.Host) {
		return nil, nil
	}

	user := p.Username
	if remote.User != "" {
		user = remote.User
	}

	switch {
	case p.UseSSHAgent:
		return p.agentAuth(user)
	case p.PrivateKeyPath != "":
		return p.fileAuth(user)
	case len(p.PrivateKey) > 0:
		return p.bytesAuth(user)
	default:
		return nil, fmt.Errorf("no SSH credentials configured")
	}
}

func isSupportedScheme(s string) bool {
	return s == "ssh" || s == "git+ssh"
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSHAuthProvider) agentAuth(user string) (transport.AuthMethod, error) {
	auth, err := ssh.NewSSHAgentAuth(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH agent auth: %w", err)
	}
	if p.HostKeyCallback != nil {
		auth.HostKeyCallback = p.HostKeyCallback
	}
	return auth, nil
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSHAuthProvider) fileAuth(user string) (transport.AuthMethod, error) {
	if _, err := os.Stat(p.PrivateKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("SSH private key file does not exist: %s", p.PrivateKeyPath)
	}
	auth, err := ssh.NewPublicKeysFromFile(user, p.PrivateKeyPath, p.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key from file: %w", err)
	}
	if p.HostKeyCallback != nil {
		auth.HostKeyCallback = p.HostKeyCallback
	}
	return auth, nil
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSHAuthProvider) bytesAuth(user string) (transport.AuthMethod, error) {
	auth, err := ssh.NewPublicKeys(user, p.PrivateKey, p.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key from bytes: %w", err)
	}
	if p.HostKeyCallback != nil {
		auth.HostKeyCallback = p.HostKeyCallback
	}
	return auth, nil
}
