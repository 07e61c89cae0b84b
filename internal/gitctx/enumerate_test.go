package gitctx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		code byte
		want StatusKind
	}{
		{'M', StatusModified},
		{'A', StatusAdded},
		{'D', StatusDeleted},
		{'R', StatusRenamed},
		{'C', StatusCopied},
		{'U', StatusUpdated},
		{'?', StatusUntracked},
		{'T', StatusUnknown},
		{'X', StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.code))
		})
	}
}

func TestEnumerate_ParsesNameStatus(t *testing.T) {
	root := filepath.FromSlash("/work/repo")
	runner := newFakeRunner().on(
		nul("M", "src/a.ts", "A", "README.md", "?", "untracked.txt", "R100", "old.go", "new.go", "C75", "tmpl.go", "copy.go"),
		"diff", "--name-status", "-z", "--cached",
	)
	repo := NewRepo(root, nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Staged)
	require.NoError(t, err)

	want := []Change{
		{Path: filepath.Join(root, "src", "a.ts"), Status: StatusModified},
		{Path: filepath.Join(root, "README.md"), Status: StatusAdded},
		{Path: filepath.Join(root, "untracked.txt"), Status: StatusUntracked},
		{Path: filepath.Join(root, "new.go"), Status: StatusRenamed},
		{Path: filepath.Join(root, "copy.go"), Status: StatusCopied},
	}
	assert.Equal(t, want, changes)
	assert.Equal(t, []string{root}, runner.dirs)
}

func TestEnumerate_UnstagedOmitsCached(t *testing.T) {
	runner := newFakeRunner().on(nul("D", "gone.go"), "diff", "--name-status", "-z")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Unstaged)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, StatusDeleted, changes[0].Status)
	assert.Equal(t, []string{"diff --name-status -z"}, runner.calls)
}

func TestEnumerate_KeepsNamesVerbatim(t *testing.T) {
	runner := newFakeRunner().on(
		nul("A", "café.go", "M", " padded name.txt ", "A", "tab\tname.md"),
		"diff", "--name-status", "-z", "--cached",
	)
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Staged)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, filepath.Join("/r", "café.go"), changes[0].Path)
	assert.Equal(t, filepath.Join("/r", " padded name.txt "), changes[1].Path)
	assert.Equal(t, filepath.Join("/r", "tab\tname.md"), changes[2].Path)
}

func TestEnumerate_TruncatedRecordIgnored(t *testing.T) {
	runner := newFakeRunner().on("M\x00a.go\x00R100\x00old.go", "diff", "--name-status", "-z", "--cached")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Staged)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, filepath.Join("/r", "a.go"), changes[0].Path)
}

func TestEnumerate_DeduplicatesPaths(t *testing.T) {
	runner := newFakeRunner().on(nul("M", "a.go", "M", "a.go"), "diff", "--name-status", "-z", "--cached")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Staged)
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}

func TestEnumerate_FailureReturnsEmpty(t *testing.T) {
	runner := newFakeRunner().failOn("diff", "--name-status", "-z", "--cached")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Staged)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGitCommand))
	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}

func TestEnumerate_EmptyOutput(t *testing.T) {
	runner := newFakeRunner().on("", "diff", "--name-status", "-z", "--cached")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	changes, err := repo.Enumerate(context.Background(), Staged)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
