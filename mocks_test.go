package gitadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/engine"
)

// mockEngine is a scripted engine.Engine.
type mockEngine struct {
	mock.Mock
}

var _ engine.Engine = (*mockEngine)(nil)

func (m *mockEngine) Name() string {
	return "mock"
}

func (m *mockEngine) Supports(f engine.Feature) bool {
	return m.Called(f).Bool(0)
}

//nolint:ireturn // engine contract returns interfaces
func (m *mockEngine) OpenBare(_ context.Context, path string) (engine.Repository, error) {
	args := m.Called(path)
	repo, _ := args.Get(0).(engine.Repository)
	return repo, args.Error(1)
}

//nolint:ireturn // engine contract returns interfaces
func (m *mockEngine) OpenWorkTree(_ context.Context, path string) (engine.WorkTree, error) {
	args := m.Called(path)
	wt, _ := args.Get(0).(engine.WorkTree)
	return wt, args.Error(1)
}

func (m *mockEngine) Clone(_ context.Context, req engine.CloneRequest) error {
	return m.Called(req).Error(0)
}

// mockRepository is a scripted engine.Repository. Close is counted rather
// than scripted.
type mockRepository struct {
	mock.Mock
	closed int
}

var _ engine.Repository = (*mockRepository)(nil)

func (m *mockRepository) Commits(ref string, limit int) ([]engine.Commit, error) {
	args := m.Called(ref, limit)
	commits, _ := args.Get(0).([]engine.Commit)
	return commits, args.Error(1)
}

func (m *mockRepository) Branches() ([]string, error) {
	args := m.Called()
	branches, _ := args.Get(0).([]string)
	return branches, args.Error(1)
}

func (m *mockRepository) Blob(path, ref string) ([]byte, error) {
	args := m.Called(path, ref)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockRepository) Fetch(_ context.Context, req engine.FetchRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockRepository) Close() error {
	m.closed++
	return nil
}

// mockWorkTree is a scripted engine.WorkTree.
type mockWorkTree struct {
	mockRepository
}

var _ engine.WorkTree = (*mockWorkTree)(nil)

func (m *mockWorkTree) Clean(req engine.CleanRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockWorkTree) Reset(sha string, mode engine.ResetMode) error {
	return m.Called(sha, mode).Error(0)
}

// newMockAdapter returns an adapter over a fresh mock engine.
func newMockAdapter(t *testing.T) (*Adapter, *mockEngine) {
	t.Helper()

	e := &mockEngine{}
	t.Cleanup(func() { e.AssertExpectations(t) })

	a, err := New(WithEngine(e))
	require.NoError(t, err)
	return a, e
}
