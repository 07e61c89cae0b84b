package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
	// The messages API requires max_tokens.
	anthropicDefaultMaxTokens = 1024
)

// Anthropic implements Provider for Anthropic's messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	retries int
	client  *http.Client
	logger  *zap.Logger
}

// NewAnthropic creates a new Anthropic provider.
func NewAnthropic(model string, opts Options) (*Anthropic, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "ANTHROPIC_API_KEY")
	}
	return &Anthropic{
		apiKey:  key,
		model:   model,
		baseURL: envOr("GITSCRIBE_ANTHROPIC_BASE_URL", defaultAnthropicURL),
		retries: opts.Retries,
		client:  opts.client(),
		logger:  opts.logger(),
	}, nil
}

func (a *Anthropic) Name() string  { return "anthropic" }
func (a *Anthropic) Model() string { return a.model }

func (a *Anthropic) Generate(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, errors.Wrap(err, "marshaling request")
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}

	var resp Response
	err = retry(ctx, a.retries, a.logger, func() error {
		var result anthropicResponse
		if err := postJSON(ctx, a.client, a.baseURL, headers, payload, &result); err != nil {
			return err
		}
		var sb strings.Builder
		for _, block := range result.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		content := strings.TrimSpace(sb.String())
		if content == "" {
			return ErrEmptyCompletion
		}
		resp = Response{
			Content:    content,
			TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
		}
		return nil
	})
	if err != nil {
		return Response{}, errors.Wrap(err, "anthropic")
	}
	return resp, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
	Usage   anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
