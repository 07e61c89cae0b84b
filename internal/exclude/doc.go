// Package exclude decides which changed paths are left out of diff analysis.
//
// A [RuleSet] combines three pattern sources: a fixed list of lock files and
// build/cache directories, the project's root .gitignore (read once when the
// set is built), and any extra globs from configuration. A path is excluded
// when any source matches it. Exclusion only affects what is sent to the
// model; git keeps tracking the file.
package exclude
