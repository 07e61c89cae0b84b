// Package output formats generation results for display or machine
// consumption.
//
// Three formats are supported:
//   - text     the commit message alone (default), ready to pipe into git
//   - json     the full commitmsg.Result
//   - markdown the message in a fenced block with a collapsible file list
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteResult] to write straight to an io.Writer.
package output
