package output

import (
	"io"
	"strings"

	"github.com/dshills/gitscribe/internal/commitmsg"
)

// MarkdownWriter outputs the message in a fenced block followed by a
// collapsible list of the files it describes.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, res commitmsg.Result) error {
	ew := &errWriter{w: w}

	ew.println("## Commit message")
	ew.println("")
	ew.println("```")
	ew.println(strings.TrimRight(res.Message, "\n"))
	ew.println("```")
	ew.println("")

	scope := "unstaged"
	if res.Staged {
		scope = "staged"
	}
	ew.printf("_%s/%s, %s changes", res.Provider, res.Model, scope)
	if res.Truncated {
		ew.printf(", diff summarized")
	}
	if res.Cached {
		ew.printf(", cached")
	}
	ew.println("_")

	if len(res.Files) > 0 {
		ew.println("")
		ew.printf("<details>\n<summary>Files (%d)</summary>\n\n", len(res.Files))
		for _, f := range res.Files {
			ew.printf("- `%s`\n", f)
		}
		ew.println("\n</details>")
	}
	return ew.err
}
