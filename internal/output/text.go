package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/gitscribe/internal/commitmsg"
)

// TextWriter outputs the message alone.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, res commitmsg.Result) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(res.Message, "\n"))
	return err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
