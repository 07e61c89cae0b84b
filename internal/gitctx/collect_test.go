package gitctx

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/gitscribe/internal/exclude"
)

func TestCollect_JoinsIncludedDiffsInOrder(t *testing.T) {
	runner := newFakeRunner().
		on(nul("src/a.ts", "package-lock.json", "README.md", "empty.txt"), "diff", "--name-only", "-z", "--cached").
		on("diff-a\n", "diff", "--cached", "--", ":(literal)src/a.ts").
		on("diff-readme\n", "diff", "--cached", "--", ":(literal)README.md").
		on("  \n", "diff", "--cached", "--", ":(literal)empty.txt")
	repo := NewRepo("/r", exclude.Builtin(), zaptest.NewLogger(t), WithRunner(runner))

	var progress []float64
	diff, err := repo.Collect(context.Background(), Staged, func(p float64) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Equal(t, "diff-a\n\ndiff-readme\n", diff)
	assert.NotContains(t, runner.calls, "diff --cached -- :(literal)package-lock.json")
	assert.Equal(t, []float64{25, 50, 75, 100}, progress)
}

func TestCollect_UnusualNamesPassedLiterally(t *testing.T) {
	names := []string{"café.go", " lead and trail ", "pages/[id].tsx"}
	runner := newFakeRunner().on(nul(names...), "diff", "--name-only", "-z", "--cached")
	for _, n := range names {
		runner.on("diff "+n, "diff", "--cached", "--", ":(literal)"+n)
	}
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	diff, err := repo.Collect(context.Background(), Staged, nil)
	require.NoError(t, err)
	assert.Equal(t, "diff café.go\ndiff  lead and trail \ndiff pages/[id].tsx", diff)
}

func TestCollect_ProgressIsMonotonicAndEndsAt100(t *testing.T) {
	runner := newFakeRunner().on(nul("a", "b", "c"), "diff", "--name-only", "-z")
	for _, f := range []string{"a", "b", "c"} {
		runner.on("d-"+f, "diff", "--", ":(literal)"+f)
	}
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	var progress []float64
	_, err := repo.Collect(context.Background(), Unstaged, func(p float64) { progress = append(progress, p) })
	require.NoError(t, err)

	require.Len(t, progress, 3)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Equal(t, 100.0, progress[len(progress)-1])
}

func TestCollect_NoFilesNoProgress(t *testing.T) {
	runner := newFakeRunner().on("", "diff", "--name-only", "-z", "--cached")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	called := false
	diff, err := repo.Collect(context.Background(), Staged, func(float64) { called = true })
	require.NoError(t, err)
	assert.Empty(t, diff)
	assert.False(t, called)
}

func TestCollect_NilProgress(t *testing.T) {
	runner := newFakeRunner().
		on(nul("a.go"), "diff", "--name-only", "-z", "--cached").
		on("diff-a", "diff", "--cached", "--", ":(literal)a.go")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	diff, err := repo.Collect(context.Background(), Staged, nil)
	require.NoError(t, err)
	assert.Equal(t, "diff-a", diff)
}

func TestCollect_ListingFailureReturnsEmpty(t *testing.T) {
	runner := newFakeRunner().failOn("diff", "--name-only", "-z", "--cached")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	diff, err := repo.Collect(context.Background(), Staged, nil)
	assert.Empty(t, diff)
	assert.True(t, errors.Is(err, ErrGitCommand))
}

func TestCollect_FileDiffFailureReturnsEmpty(t *testing.T) {
	runner := newFakeRunner().
		on(nul("a.go", "b.go"), "diff", "--name-only", "-z", "--cached").
		on("diff-a", "diff", "--cached", "--", ":(literal)a.go").
		failOn("diff", "--cached", "--", ":(literal)b.go")
	repo := NewRepo("/r", nil, zaptest.NewLogger(t), WithRunner(runner))

	diff, err := repo.Collect(context.Background(), Staged, nil)
	assert.Empty(t, diff)
	assert.True(t, errors.Is(err, ErrGitCommand))
}
