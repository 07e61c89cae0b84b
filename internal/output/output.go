package output

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dshills/gitscribe/internal/commitmsg"
)

// ErrUnsupportedFormat is returned by GetWriter for an unknown format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "markdown"}

// Writer writes a result in a specific format.
type Writer interface {
	Write(w io.Writer, res commitmsg.Result) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// WriteResult writes res to w in format.
func WriteResult(w io.Writer, res commitmsg.Result, format string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(w, res)
}
