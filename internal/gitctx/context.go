package gitctx

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const noChanges = "No changes detected."

// Build assembles the Context for changes in scope. It never fails: git
// errors drop the affected section and a panic yields FailedContext.
func (r *Repo) Build(ctx context.Context, changes []Change, scope Scope) Context {
	return r.BuildWithProgress(ctx, changes, scope, nil)
}

// BuildWithProgress is Build with a progress callback for diff collection.
func (r *Repo) BuildWithProgress(ctx context.Context, changes []Change, scope Scope, onProgress ProgressFunc) (c Context) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("context generation failed", zap.Any("panic", p))
			c = FailedContext()
		}
	}()

	diff, _ := r.Collect(ctx, scope, onProgress)
	if n := utf8.RuneCountInString(diff); n > r.maxDiffSize {
		r.logger.Info("diff exceeds size limit, summarizing",
			zap.Int("chars", n),
			zap.Int("limit", r.maxDiffSize))
		c.DiffSection = Summarize(r.root, changes)
		c.Truncated = true
	} else {
		c.DiffSection = diff
	}

	c.SummarySection = r.optional(ctx, scope.diffArgs([]string{"--stat"})...)
	c.Branch = r.optional(ctx, "branch", "--show-current")
	c.RecentCommits = r.optional(ctx, "log", "--oneline", fmt.Sprintf("-%d", RecentCommitCount))
	return c
}

// optional runs a git command whose failure only omits a section.
func (r *Repo) optional(ctx context.Context, args ...string) string {
	out, err := r.git(ctx, args...)
	if err != nil {
		r.logger.Debug("optional context section omitted", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(out)
}

type bucket struct {
	label string
	match func(StatusKind) bool
	raw   bool
}

var buckets = []bucket{
	{label: "Modified", match: func(s StatusKind) bool { return s == StatusModified }},
	{label: "Added", match: func(s StatusKind) bool { return s == StatusAdded }},
	{label: "Deleted", match: func(s StatusKind) bool { return s == StatusDeleted }},
	{label: "Renamed", match: func(s StatusKind) bool { return s == StatusRenamed }},
	{label: "Other", raw: true, match: func(s StatusKind) bool {
		return s != StatusModified && s != StatusAdded && s != StatusDeleted && s != StatusRenamed
	}},
}

// Summarize lists changes grouped by status, with paths relative to root.
// The output depends only on its inputs.
func Summarize(root string, changes []Change) string {
	if len(changes) == 0 {
		return noChanges
	}
	var sections []string
	for _, bk := range buckets {
		group := lo.Filter(changes, func(c Change, _ int) bool { return bk.match(c.Status) })
		if len(group) == 0 {
			continue
		}
		lines := lo.Map(group, func(c Change, _ int) string {
			if bk.raw {
				return fmt.Sprintf("- %s (%s)", rel(root, c.Path), c.Status)
			}
			return "- " + rel(root, c.Path)
		})
		sections = append(sections, fmt.Sprintf("%s files (%d):\n%s", bk.label, len(group), strings.Join(lines, "\n")))
	}
	sections = append(sections, fmt.Sprintf("Total: %d files changed", len(changes)))
	return strings.Join(sections, "\n\n")
}

// Files returns the changed paths relative to the workspace root.
func (r *Repo) Files(changes []Change) []string {
	return lo.Map(changes, func(c Change, _ int) string { return r.Rel(c.Path) })
}
