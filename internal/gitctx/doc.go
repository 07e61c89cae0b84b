// Package gitctx collects the git context a commit message is written from.
//
// Everything here shells out to the git binary, one subprocess at a time, in
// the workspace root. [Repo.Enumerate] lists changed paths with their status,
// [Repo.Collect] concatenates per-file diffs for the paths the exclusion
// rules keep, and [Repo.Build] assembles the final [Context]: the literal diff
// when it fits under the size ceiling, otherwise a per-status file summary,
// plus diff statistics, the current branch and the last five commit subjects.
//
// Git failures never propagate as hard failures. Each operation returns its
// designed fallback value (an empty change list, an empty diff, an omitted
// section) together with an error marked [ErrGitCommand] that callers are free
// to ignore.
package gitctx
