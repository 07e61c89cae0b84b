// Package obsidian appends a record of each generated commit message to a
// note in an Obsidian vault through the Local REST API plugin.
//
// Entries are appended under a heading with a PATCH request. Publishing is
// best effort: callers log failures and never let them block delivery of
// the message itself.
package obsidian
