package auth

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSAuthProvider_NewProviders(t *testing.T) {
	t.Run("basic auth", func(t *testing.T) {
		p := NewHTTPSAuthProvider("user", "pass")
		assert.Equal(t, &http.BasicAuth{Username: "user", Password: "pass"}, p.auth)
	})

	t.Run("token as password only", func(t *testing.T) {
		p := NewHTTPSAuthProvider("", "tok")
		assert.Equal(t, &http.BasicAuth{Username: "tok"}, p.auth)
	})

	t.Run("token provider", func(t *testing.T) {
		p := NewHTTPSTokenProvider("tok")
		assert.Equal(t, &http.BasicAuth{Username: "token", Password: "tok"}, p.auth)
	})
}

func TestHTTPSAuthProvider_Method(t *testing.T) {
	tests := []struct {
		name      string
		provider  *HTTPSAuthProvider
		remoteURL string
		wantAuth  bool
		wantError bool
	}{
		{
			name:      "https url",
			provider:  NewHTTPSTokenProvider("tok"),
			remoteURL: "https://github.com/user/repo.git",
			wantAuth:  true,
		},
		{
			name:      "ssh url is declined",
			provider:  NewHTTPSTokenProvider("tok"),
			remoteURL: "git@github.com:user/repo.git",
		},
		{
			name:      "local path is declined",
			provider:  NewHTTPSTokenProvider("tok"),
			remoteURL: "/srv/git/repo.git",
		},
		{
			name:      "plain http is declined",
			provider:  NewHTTPSTokenProvider("tok"),
			remoteURL: "http://github.com/user/repo.git",
		},
		{
			name:      "allowed host",
			provider:  NewHTTPSTokenProvider("tok").WithAllowedHosts("*.github.com"),
			remoteURL: "https://github.com/user/repo.git",
			wantAuth:  true,
		},
		{
			name:      "host outside allow list",
			provider:  NewHTTPSTokenProvider("tok").WithAllowedHosts("gitlab.*"),
			remoteURL: "https://github.com/user/repo.git",
		},
		{
			name:      "invalid url",
			provider:  NewHTTPSTokenProvider("tok"),
			remoteURL: "https://[::1",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := tt.provider.Method(tt.remoteURL)
			if tt.wantError {
				require.Error(t, err)
				assert.Nil(t, auth)
				return
			}

			require.NoError(t, err)
			if tt.wantAuth {
				assert.NotNil(t, auth)
			} else {
				assert.Nil(t, auth)
			}
		})
	}
}
