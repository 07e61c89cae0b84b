package gitctx

import "strings"

// MaxDiffSize is the default diff length, in characters, above which the
// literal diff is replaced by a file summary.
const MaxDiffSize = 40000

// RecentCommitCount is how many commit subjects are included in a Context.
const RecentCommitCount = 5

// Scope selects which change-set git compares.
type Scope struct {
	// Staged compares the index against HEAD; otherwise the working tree is
	// compared against the index.
	Staged bool
}

// Staged is the index-vs-HEAD scope.
var Staged = Scope{Staged: true}

// Unstaged is the worktree-vs-index scope.
var Unstaged = Scope{Staged: false}

func (s Scope) String() string {
	if s.Staged {
		return "staged"
	}
	return "unstaged"
}

// diffArgs builds "diff <flags...> [--cached] [extra...]".
func (s Scope) diffArgs(flags []string, extra ...string) []string {
	args := append([]string{"diff"}, flags...)
	if s.Staged {
		args = append(args, "--cached")
	}
	return append(args, extra...)
}

// StatusKind is the change status git reports for a path.
type StatusKind string

const (
	StatusAdded     StatusKind = "Added"
	StatusModified  StatusKind = "Modified"
	StatusDeleted   StatusKind = "Deleted"
	StatusRenamed   StatusKind = "Renamed"
	StatusCopied    StatusKind = "Copied"
	StatusUpdated   StatusKind = "Updated"
	StatusUntracked StatusKind = "Untracked"
	StatusUnknown   StatusKind = "Unknown"
)

// ParseStatus maps a single git status letter to a StatusKind.
func ParseStatus(code byte) StatusKind {
	switch code {
	case 'M':
		return StatusModified
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	case 'C':
		return StatusCopied
	case 'U':
		return StatusUpdated
	case '?':
		return StatusUntracked
	default:
		return StatusUnknown
	}
}

// Change is one changed path in a scope. Path is absolute.
type Change struct {
	Path   string     `json:"path"`
	Status StatusKind `json:"status"`
}

// Context is the textual payload handed to the prompt renderer.
type Context struct {
	// DiffSection holds the literal diff, or the file summary when Truncated.
	DiffSection string `json:"diffSection"`
	// SummarySection holds the `git diff --stat` output.
	SummarySection string `json:"summarySection,omitempty"`
	Branch         string `json:"branch,omitempty"`
	RecentCommits  string `json:"recentCommits,omitempty"`
	Truncated      bool   `json:"truncated"`
}

const failedMessage = "Context generation failed."

// FailedContext is returned when building the context panics.
func FailedContext() Context {
	return Context{
		DiffSection:    failedMessage,
		SummarySection: failedMessage,
	}
}

// DiffLabel is "truncated" when the summary replaced the diff, else "full".
func (c Context) DiffLabel() string {
	if c.Truncated {
		return "truncated"
	}
	return "full"
}

// String renders the context as markdown-style sections. Empty optional
// sections are left out.
func (c Context) String() string {
	var b strings.Builder
	if c.Truncated {
		b.WriteString("## Changes (truncated: the diff exceeded the size limit, changed files are listed instead)\n")
	} else {
		b.WriteString("## Changes (full diff)\n")
	}
	b.WriteString(c.DiffSection)
	b.WriteString("\n")

	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		b.WriteString("\n## ")
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	section("Statistics", c.SummarySection)
	section("Branch", c.Branch)
	section("Recent Commits", c.RecentCommits)
	return b.String()
}
