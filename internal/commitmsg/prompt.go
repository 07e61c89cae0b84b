package commitmsg

import (
	"os"
	"strings"

	"github.com/dshills/gitscribe/internal/gitctx"
)

const standardTemplate = `You are an expert software engineer writing a git commit message.

Write a commit message for the changes below following the Conventional Commits format:
- First line: <type>(<optional scope>): <description>
- Types: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert
- Keep the first line under 72 characters, in the imperative mood, with no trailing period.
- When the change needs more explanation, add a blank line and a short body wrapped at 72 characters describing what changed and why.
- Note breaking changes in a footer starting with "BREAKING CHANGE:".
- Reply with the commit message only: no code fences, no quotes, no commentary.

${customInstructions}

${context}`

const differentTemplate = `IMPORTANT: a previous attempt produced this commit message:
${previousMessage}
Write a new message that is substantially different from it in wording and focus while staying accurate to the changes.

` + standardTemplate + `

Remember: the message must be substantially different from the previous one:
${previousMessage}`

// Render builds the prompt for c. A non-empty previousMessage selects the
// template asking for a different message.
func Render(c gitctx.Context, customInstructions, previousMessage string) string {
	fields := map[string]string{
		"context":            c.String(),
		"customInstructions": strings.TrimSpace(customInstructions),
		"previousMessage":    strings.TrimSpace(previousMessage),
	}
	tmpl := standardTemplate
	if fields["previousMessage"] != "" {
		tmpl = differentTemplate
	}
	return substitute(tmpl, fields)
}

// substitute replaces ${name} tokens in tmpl. Unknown names become "".
// Substituted values are inserted verbatim and never expanded again.
func substitute(tmpl string, fields map[string]string) string {
	return os.Expand(tmpl, func(name string) string {
		return fields[name]
	})
}
