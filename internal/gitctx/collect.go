package gitctx

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// ProgressFunc receives the percentage of files processed, 0 to 100.
type ProgressFunc func(percent float64)

// Collect returns the diffs of every non-excluded changed file in scope,
// joined by newlines in git's listing order. Files are diffed one at a time.
// After each file, onProgress (when set) receives processed/total*100; the
// final report is exactly 100. Any git failure yields "" and an error marked
// ErrGitCommand.
func (r *Repo) Collect(ctx context.Context, scope Scope, onProgress ProgressFunc) (string, error) {
	out, err := r.git(ctx, scope.diffArgs([]string{"--name-only", "-z"})...)
	if err != nil {
		r.logger.Warn("listing changed files failed", zap.String("scope", scope.String()), zap.Error(err))
		return "", err
	}

	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}

	var diffs []string
	total := len(files)
	for i, file := range files {
		if r.rules.IsExcluded(file) {
			r.logger.Debug("excluded from diff", zap.String("path", file))
		} else {
			d, err := r.git(ctx, scope.diffArgs(nil, "--", literalPathspec(file))...)
			if err != nil {
				r.logger.Warn("diffing file failed", zap.String("path", file), zap.Error(err))
				return "", err
			}
			if strings.TrimSpace(d) != "" {
				diffs = append(diffs, d)
			}
		}
		if onProgress != nil && total > 0 {
			onProgress(float64(i+1) / float64(total) * 100)
		}
	}
	return strings.Join(diffs, "\n"), nil
}

// literalPathspec keeps git from treating glob characters in a file name,
// such as "[id].tsx", as a pattern.
func literalPathspec(path string) string {
	return ":(literal)" + path
}
