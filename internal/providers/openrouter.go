package providers

import (
	"os"

	"github.com/cockroachdb/errors"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// NewOpenRouter creates a provider for OpenRouter. It reuses the OpenAI
// client with OpenRouter's endpoint and attribution headers.
func NewOpenRouter(model string, opts Options) (*OpenAI, error) {
	key := os.Getenv("OPENROUTER_API_KEY")
	if key == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "OPENROUTER_API_KEY")
	}
	headers := map[string]string{}
	if opts.Referer != "" {
		headers["HTTP-Referer"] = opts.Referer
	}
	if opts.Title != "" {
		headers["X-Title"] = opts.Title
	}
	return &OpenAI{
		name:    "openrouter",
		apiKey:  key,
		model:   model,
		baseURL: envOr("GITSCRIBE_OPENROUTER_BASE_URL", defaultOpenRouterURL),
		headers: headers,
		retries: opts.Retries,
		client:  opts.client(),
		logger:  opts.logger(),
	}, nil
}
