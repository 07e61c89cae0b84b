// Package redact removes secrets from the commit context before it is sent
// to any LLM provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, and provider-specific tokens (Anthropic, OpenAI, OpenRouter,
// GitHub, Slack). Every section of a gitctx.Context is scanned, including
// recent commit subjects.
package redact
