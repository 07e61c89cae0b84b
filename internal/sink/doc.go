// Package sink delivers a generated commit message to wherever the user will
// commit from.
//
// A Sink is the host's pending commit message: the file git passes to a
// prepare-commit-msg hook, or stdout. When no sink is available, or writing
// to it fails, Deliver falls back to copying the message to the clipboard.
package sink
