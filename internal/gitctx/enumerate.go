package gitctx

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Enumerate lists the changed paths and their status for scope, in the order
// git reports them. On failure it returns an empty, non-nil slice and an
// error marked ErrGitCommand; callers that only look at the slice see "no
// changes".
func (r *Repo) Enumerate(ctx context.Context, scope Scope) ([]Change, error) {
	out, err := r.git(ctx, scope.diffArgs([]string{"--name-status", "-z"})...)
	if err != nil {
		r.logger.Warn("listing changes failed",
			zap.String("scope", scope.String()),
			zap.Error(err))
		return []Change{}, err
	}
	return r.parseNameStatus(out), nil
}

// parseNameStatus turns `git diff --name-status -z` output into changes.
// Records are NUL-separated: a status field followed by one path, or by the
// source and destination paths for renames and copies, in which case the
// destination is kept. Paths are used verbatim, so names with spaces or
// non-ASCII characters survive.
func (r *Repo) parseNameStatus(out string) []Change {
	changes := []Change{}
	seen := make(map[string]bool)
	fields := strings.Split(out, "\x00")
	for i := 0; i < len(fields); {
		status := fields[i]
		i++
		if status == "" {
			continue
		}
		n := 1
		if status[0] == 'R' || status[0] == 'C' {
			n = 2
		}
		if i+n > len(fields) {
			break
		}
		path := fields[i+n-1]
		i += n
		if path == "" {
			continue
		}
		abs := filepath.Join(r.root, filepath.FromSlash(path))
		if seen[abs] {
			continue
		}
		seen[abs] = true
		changes = append(changes, Change{Path: abs, Status: ParseStatus(status[0])})
	}
	return changes
}
