package exclude

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

// LockFiles are package-manager lock files matched at any depth.
var LockFiles = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"composer.lock",
	"Gemfile.lock",
	"Cargo.lock",
	"poetry.lock",
	"Pipfile.lock",
	"pdm.lock",
	"uv.lock",
	"go.sum",
	"mix.lock",
	"pubspec.lock",
	"Podfile.lock",
	"packages.lock.json",
	"flake.lock",
	"gradle.lockfile",
}

// BuildDirs are build output and cache directories matched at any depth.
var BuildDirs = []string{
	"node_modules",
	"dist",
	"build",
	"out",
	"target",
	"vendor",
	".next",
	".nuxt",
	"coverage",
	"__pycache__",
	".cache",
	".gradle",
	".venv",
	"bin",
	"obj",
}

// BuiltinPatterns returns the built-in list as gitignore patterns: lock files
// as recursive globs, build directories as directory-only patterns. Both
// apply at any depth; a plain file named like a build directory is not
// excluded.
func BuiltinPatterns() []string {
	patterns := make([]string, 0, len(LockFiles)+len(BuildDirs))
	for _, f := range LockFiles {
		patterns = append(patterns, "**/"+f)
	}
	for _, d := range BuildDirs {
		patterns = append(patterns, d+"/")
	}
	return patterns
}

// Options configures a RuleSet.
type Options struct {
	// Root is the workspace root; its .gitignore is loaded when
	// RespectGitignore is set.
	Root             string
	RespectGitignore bool
	// Extra are additional globs from configuration, matched against the
	// slash-separated repository-relative path.
	Extra []string
}

// RuleSet is an immutable, compiled set of exclusion patterns. It is built
// once per session and is safe for concurrent use.
type RuleSet struct {
	builtin gitignore.Matcher
	project gitignore.Matcher
	extra   []glob.Glob

	projectCount int
}

// New compiles a RuleSet. A missing or unreadable .gitignore contributes no
// patterns; an invalid extra glob is skipped. Neither is an error.
func New(opts Options, logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &RuleSet{builtin: compile(BuiltinPatterns())}

	if opts.RespectGitignore && opts.Root != "" {
		lines, err := readIgnoreFile(filepath.Join(opts.Root, ".gitignore"))
		if err != nil {
			logger.Debug("project ignore file not loaded", zap.Error(err))
		} else {
			rs.project = compile(lines)
			rs.projectCount = len(lines)
		}
	}

	for _, p := range opts.Extra {
		for _, variant := range globVariants(p) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				logger.Warn("invalid exclude pattern", zap.String("pattern", p), zap.Error(err))
				continue
			}
			rs.extra = append(rs.extra, g)
		}
	}
	return rs
}

// Builtin returns a RuleSet with only the built-in patterns.
func Builtin() *RuleSet {
	return New(Options{}, nil)
}

// IsExcluded reports whether path matches a built-in, project or extra
// pattern. Absolute paths should be made relative to the root first;
// backslashes are treated as separators.
func (r *RuleSet) IsExcluded(path string) bool {
	if r == nil {
		return false
	}
	rel := normalize(path)
	if rel == "" {
		return false
	}
	parts := strings.Split(rel, "/")
	if r.builtin != nil && r.builtin.Match(parts, false) {
		return true
	}
	if r.project != nil && r.project.Match(parts, false) {
		return true
	}
	for _, g := range r.extra {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// ProjectPatterns returns how many .gitignore lines were loaded.
func (r *RuleSet) ProjectPatterns() int {
	return r.projectCount
}

func compile(lines []string) gitignore.Matcher {
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, l := range lines {
		patterns = append(patterns, gitignore.ParsePattern(l, nil))
	}
	return gitignore.NewMatcher(patterns)
}

func readIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// globVariants lets "**/x" also match x at the root, which gobwas/glob
// would otherwise require a leading separator for.
func globVariants(p string) []string {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	if trimmed := strings.TrimPrefix(p, "**/"); trimmed != p {
		return []string{p, trimmed}
	}
	return []string{p}
}

func normalize(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.Trim(p, "/")
}
