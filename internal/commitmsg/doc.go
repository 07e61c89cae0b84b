// Package commitmsg turns a repository's pending changes into a commit
// message.
//
// Render substitutes a gitctx.Context, optional custom instructions and an
// optional previous message into a fixed Conventional Commits template. When
// a previous message is given, the template is wrapped in a directive asking
// for a substantially different message. Rendering is pure.
//
// Generator drives the whole pipeline: enumerate changes, build the
// size-guarded context, redact secrets, render the prompt, consult the
// message cache, call the provider and clean its reply. Clean removes the
// wrappers models commonly put around an answer (code fences, quotes, a
// "Commit message:" label) and nothing more; the message is not validated.
package commitmsg
