package gitadapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

func TestResolveInRepo(t *testing.T) {
	tests := []struct {
		name    string
		commits []engine.Commit
		err     error
		want    CommitID
		found   bool
		wantErr bool
	}{
		{
			name:    "resolves",
			commits: []engine.Commit{{ID: "123abc"}},
			want:    "123abc",
			found:   true,
		},
		{
			name:    "no commits",
			commits: []engine.Commit{},
		},
		{
			name:    "empty id",
			commits: []engine.Commit{{}},
		},
		{
			name: "engine reports unresolvable",
			err:  engine.Unresolved("branch_name", nil),
		},
		{
			name:    "engine failure",
			err:     errors.New("object not found"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			repo.On("Commits", "branch_name", 1).Return(tt.commits, tt.err)

			sha, ok, err := ResolveInRepo(repo, "branch_name")
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, ok)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, sha)
			repo.AssertExpectations(t)
		})
	}
}

func TestCommitID_String(t *testing.T) {
	assert.Equal(t, "123abc", CommitID("123abc").String())
}
