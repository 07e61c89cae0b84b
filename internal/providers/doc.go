// Package providers implements the Provider interface for each supported LLM
// backend.
//
// Supported providers: OpenAI, Anthropic, and OpenRouter. OpenRouter speaks
// the OpenAI chat-completions protocol and shares its request code.
//
// Each provider reads its API key from the environment and sends the rendered
// prompt as a single user message. Rate-limit and server errors are retried
// with exponential back-off up to Options.Retries extra attempts; every other
// failure is returned immediately.
//
// Use [New] to obtain a Provider by name and model string.
package providers
