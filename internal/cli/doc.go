// Package cli wires together the Cobra command tree for the gitscribe binary.
//
// It defines the root command and all subcommands (generate, context, hook,
// models, cache, config, version), binds flags, reads configuration, runs the
// commit message pipeline, and returns deterministic exit codes so the
// prepare-commit-msg hook and scripts can tell "nothing staged" apart from a
// real failure.
package cli
