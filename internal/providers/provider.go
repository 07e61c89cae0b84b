package providers

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMissingAPIKey is returned when the provider's key variable is unset.
	ErrMissingAPIKey = errors.New("API key is not set")
	// ErrEmptyCompletion is returned when the response carries no text.
	ErrEmptyCompletion = errors.New("empty text content in API response")
)

// Request is one completion request. Prompt is sent as the single user
// message. A nil Temperature leaves sampling to the provider's default; zero
// is sent as zero.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// Response is the text completion returned by a provider.
type Response struct {
	Content    string
	TokensUsed int
}

// Provider generates a completion for a prompt.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
	Model() string
}

// Options carries settings shared by every provider.
type Options struct {
	// Retries is the number of extra attempts after a 429 or 5xx. Zero means
	// a single attempt.
	Retries int
	// Referer and Title are OpenRouter attribution headers.
	Referer string
	Title   string
	// Client overrides the HTTP client. The default has no timeout; callers
	// bound requests through the context.
	Client *http.Client
	Logger *zap.Logger
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// Names lists the supported provider names.
func Names() []string {
	return []string{"openai", "anthropic", "openrouter"}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return "claude-sonnet-4-20250514"
	case "openrouter":
		return "openai/gpt-4o-mini"
	default:
		return "gpt-4o-mini"
	}
}

// New creates a provider by name. An empty model selects DefaultModel.
func New(provider, model string, opts Options) (Provider, error) {
	if model == "" {
		model = DefaultModel(provider)
	}
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAI(model, opts)
	case "anthropic":
		return NewAnthropic(model, opts)
	case "openrouter":
		return NewOpenRouter(model, opts)
	default:
		return nil, errors.Wrapf(ErrUnknownProvider, "%q", provider)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
