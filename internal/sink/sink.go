package sink

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
)

// ErrNoSink is returned when neither a sink nor a clipboard could take the
// message.
var ErrNoSink = errors.New("no commit message sink available")

// Sink receives the commit message.
type Sink interface {
	SetValue(text string) error
}

// Clipboard is the fallback when the sink is missing or fails.
type Clipboard interface {
	Copy(text string) error
}

// Delivery reports where the message ended up.
type Delivery string

const (
	DeliveredSink      Delivery = "sink"
	DeliveredClipboard Delivery = "clipboard"
)

// Deliver writes text to s, falling back to the clipboard. Either argument
// may be nil.
func Deliver(s Sink, fallback Clipboard, text string) (Delivery, error) {
	var sinkErr error
	if s != nil {
		if sinkErr = s.SetValue(text); sinkErr == nil {
			return DeliveredSink, nil
		}
	}
	if fallback == nil {
		if sinkErr != nil {
			return "", errors.Mark(errors.Wrap(sinkErr, "writing commit message"), ErrNoSink)
		}
		return "", ErrNoSink
	}
	if err := fallback.Copy(text); err != nil {
		return "", errors.Mark(errors.CombineErrors(errors.Wrap(err, "copying to clipboard"), sinkErr), ErrNoSink)
	}
	return DeliveredClipboard, nil
}

// FileSink writes the message into a commit message file, keeping the
// comment block git appended below the message area.
type FileSink struct {
	Path string
}

// SetValue replaces the message part of the file.
func (f FileSink) SetValue(text string) error {
	existing, err := os.ReadFile(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "reading %s", f.Path)
	}
	content := strings.TrimRight(text, "\n") + "\n"
	if tail := commentBlock(string(existing)); tail != "" {
		content += "\n" + tail
	}
	return errors.Wrapf(os.WriteFile(f.Path, []byte(content), 0o644), "writing %s", f.Path)
}

// commentBlock returns everything from the first line starting with '#'.
func commentBlock(s string) string {
	lines := strings.SplitAfter(s, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "#") {
			return strings.Join(lines[i:], "")
		}
	}
	return ""
}

// WriterSink prints the message, typically to stdout.
type WriterSink struct {
	W io.Writer
}

func (w WriterSink) SetValue(text string) error {
	_, err := fmt.Fprintln(w.W, strings.TrimRight(text, "\n"))
	return err
}

// SystemClipboard copies to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}
	return errors.Wrap(clipboard.WriteAll(text), "writing clipboard")
}
