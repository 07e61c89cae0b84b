package commitmsg

import "strings"

var labels = []string{"commit message:", "commit:"}

// Clean strips the wrappers a model may put around the message: surrounding
// whitespace, a code fence, a "Commit message:" label, and one pair of
// matching quotes.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = stripFence(s)
	s = stripLabel(s)
	s = stripQuotes(s)
	return strings.TrimSpace(s)
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return strings.Trim(s, "`")
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

func stripLabel(s string) string {
	lower := strings.ToLower(s)
	for _, l := range labels {
		if strings.HasPrefix(lower, l) {
			return strings.TrimSpace(s[len(l):])
		}
	}
	return s
}

func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	for _, q := range []byte{'"', '\'', '`'} {
		if s[0] == q && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
