package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBuiltin_LockFilesAtAnyDepth(t *testing.T) {
	rs := Builtin()
	tests := []struct {
		path string
		want bool
	}{
		{"package-lock.json", true},
		{"a/b/package-lock.json", true},
		{"src/package-lock-info.ts", false},
		{"web/yarn.lock", true},
		{"go.sum", true},
		{"services/api/Cargo.lock", true},
		{"docs/yarn.lock.md", false},
		{"main.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.IsExcluded(tt.path))
		})
	}
}

func TestBuiltin_BuildDirectories(t *testing.T) {
	rs := Builtin()
	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/react/index.js", true},
		{"packages/ui/node_modules/x/y.js", true},
		{"dist/bundle.js", true},
		{"app/__pycache__/mod.cpython-312.pyc", true},
		{"src/distance.go", false},
		{"src/builder/build.go", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.IsExcluded(tt.path))
		})
	}
}

func TestBuiltinPatterns_AreRecursive(t *testing.T) {
	patterns := BuiltinPatterns()
	require.Len(t, patterns, len(LockFiles)+len(BuildDirs))
	assert.Contains(t, patterns, "**/package-lock.json")
	assert.Contains(t, patterns, "node_modules/")
}

func TestBuiltin_DirectoryRulesSkipPlainFiles(t *testing.T) {
	rs := Builtin()
	tests := []struct {
		path string
		want bool
	}{
		{"out", false},
		{"bin", false},
		{"scripts/build", false},
		{"docs/coverage", false},
		{"out/main.js", true},
		{"cmd/tool/bin/tool", true},
		{"a/b/coverage/lcov.info", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.IsExcluded(tt.path))
		})
	}
}

func TestNew_LoadsProjectGitignore(t *testing.T) {
	root := t.TempDir()
	ignore := "# generated\n*.log\n/secrets.txt\ntmp/\n\n!keep.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(ignore), 0o644))

	rs := New(Options{Root: root, RespectGitignore: true}, zaptest.NewLogger(t))

	assert.Equal(t, 4, rs.ProjectPatterns())
	assert.True(t, rs.IsExcluded("debug.log"))
	assert.True(t, rs.IsExcluded("logs/server.log"))
	assert.True(t, rs.IsExcluded("secrets.txt"))
	assert.True(t, rs.IsExcluded("tmp/scratch.go"))
	assert.False(t, rs.IsExcluded("keep.log"), "negation is honoured by the gitignore engine")
	assert.False(t, rs.IsExcluded("main.go"))
}

func TestNew_MissingGitignoreFailsOpen(t *testing.T) {
	rs := New(Options{Root: t.TempDir(), RespectGitignore: true}, zaptest.NewLogger(t))

	assert.Equal(t, 0, rs.ProjectPatterns())
	assert.False(t, rs.IsExcluded("debug.log"))
	assert.True(t, rs.IsExcluded("yarn.lock"), "built-in patterns still apply")
}

func TestNew_GitignoreIgnoredWhenDisabled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))

	rs := New(Options{Root: root}, nil)
	assert.False(t, rs.IsExcluded("debug.log"))
}

func TestNew_ExtraGlobs(t *testing.T) {
	rs := New(Options{Extra: []string{"**/*.gen.go", "fixtures/**", "[bad"}}, zaptest.NewLogger(t))

	assert.True(t, rs.IsExcluded("api.gen.go"))
	assert.True(t, rs.IsExcluded("pkg/api/api.gen.go"))
	assert.True(t, rs.IsExcluded("fixtures/a/b.json"))
	assert.False(t, rs.IsExcluded("pkg/api/api.go"))
}

func TestIsExcluded_NormalizesSeparators(t *testing.T) {
	rs := Builtin()
	assert.True(t, rs.IsExcluded(`web\node_modules\x.js`))
	assert.True(t, rs.IsExcluded("./package-lock.json"))
	assert.False(t, rs.IsExcluded(""))
}

func TestIsExcluded_NilRuleSet(t *testing.T) {
	var rs *RuleSet
	assert.False(t, rs.IsExcluded("package-lock.json"))
}
