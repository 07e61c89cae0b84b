package commitmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "feat: add parser", "feat: add parser"},
		{"whitespace", "\n  fix: handle nil  \n\n", "fix: handle nil"},
		{"fence", "```\nfeat: add parser\n\nBody line.\n```", "feat: add parser\n\nBody line."},
		{"fence with language", "```text\nchore: bump deps\n```", "chore: bump deps"},
		{"unterminated fence", "```\ndocs: readme", "docs: readme"},
		{"double quotes", `"fix: typo"`, "fix: typo"},
		{"single quotes", "'fix: typo'", "fix: typo"},
		{"backticks", "`fix: typo`", "fix: typo"},
		{"mismatched quotes kept", `"fix: typo'`, `"fix: typo'`},
		{"label", "Commit message: feat: x", "feat: x"},
		{"label lowercase quoted", "commit message:\n\"refactor: y\"", "refactor: y"},
		{"inner quotes kept", `fix: quote "name" field`, `fix: quote "name" field`},
		{"empty", "   ", ""},
		{"empty fence", "```\n```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
