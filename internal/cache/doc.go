// Package cache provides a file-based cache for generated commit messages.
//
// Cache entries are keyed by a SHA-256 hash of the provider name, model, and
// rendered prompt. Each entry stores the cleaned message along with a
// creation timestamp and a TTL (in seconds). Expired entries are skipped on
// read and reported by GetStats.
//
// Independently of the TTL cache, the most recent message generated for each
// repository root is kept under last/ so that a later run can ask the model
// for a substantially different alternative. These records are written even
// when message caching is disabled.
//
// The default cache directory is $XDG_CACHE_HOME/gitscribe (or the
// OS-appropriate equivalent). Prompts are hashed after secret redaction.
package cache
