package gitctx

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/gitscribe/internal/exclude"
)

var (
	// ErrGitCommand marks errors from a failed or missing git invocation.
	ErrGitCommand = errors.New("git command failed")
	// ErrNotRepository is returned when the directory is not inside a work tree.
	ErrNotRepository = errors.New("not a git repository")
)

// Runner executes git with args in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

// Run executes git. A non-zero exit is an error carrying git's stderr.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = gitEnv(os.Environ())
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), errors.Newf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// gitEnv turns off core.quotePath so diff headers and --stat print file
// names as UTF-8 instead of octal escapes. An existing GIT_CONFIG_COUNT is
// left alone.
func gitEnv(env []string) []string {
	for _, kv := range env {
		if strings.HasPrefix(kv, "GIT_CONFIG_COUNT=") {
			return env
		}
	}
	return append(env,
		"GIT_CONFIG_COUNT=1",
		"GIT_CONFIG_KEY_0=core.quotePath",
		"GIT_CONFIG_VALUE_0=false",
	)
}

// FindRoot returns the top-level directory of the work tree containing dir.
func FindRoot(ctx context.Context, runner Runner, dir string) (string, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	out, err := runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "%s", dir), ErrNotRepository)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", errors.Wrapf(ErrNotRepository, "%s", dir)
	}
	return filepath.Abs(root)
}

// Repo runs git commands against one workspace root.
type Repo struct {
	root        string
	runner      Runner
	rules       *exclude.RuleSet
	logger      *zap.Logger
	maxDiffSize int
}

// Option customizes a Repo.
type Option func(*Repo)

// WithRunner replaces the git runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(repo *Repo) { repo.runner = r }
}

// WithMaxDiffSize overrides the diff size ceiling. Non-positive values keep
// the default.
func WithMaxDiffSize(n int) Option {
	return func(repo *Repo) {
		if n > 0 {
			repo.maxDiffSize = n
		}
	}
}

// NewRepo creates a Repo rooted at root. A nil rule set excludes nothing.
func NewRepo(root string, rules *exclude.RuleSet, logger *zap.Logger, opts ...Option) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repo{
		root:        root,
		runner:      ExecRunner{},
		rules:       rules,
		logger:      logger,
		maxDiffSize: MaxDiffSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the workspace root.
func (r *Repo) Root() string { return r.root }

// MaxDiffSize returns the configured ceiling.
func (r *Repo) MaxDiffSize() int { return r.maxDiffSize }

// Rel returns path relative to the workspace root, or path unchanged when it
// is not below the root.
func (r *Repo) Rel(path string) string { return rel(r.root, path) }

func rel(root, path string) string {
	p, err := filepath.Rel(root, path)
	if err != nil || p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
		return path
	}
	return p
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Run(ctx, r.root, args...)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "git %s", strings.Join(args, " ")), ErrGitCommand)
	}
	return out, nil
}
