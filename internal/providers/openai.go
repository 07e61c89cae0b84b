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

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI implements Provider for OpenAI's chat-completions API.
type OpenAI struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	headers map[string]string
	retries int
	client  *http.Client
	logger  *zap.Logger
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(model string, opts Options) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "OPENAI_API_KEY")
	}
	return &OpenAI{
		name:    "openai",
		apiKey:  key,
		model:   model,
		baseURL: envOr("GITSCRIBE_OPENAI_BASE_URL", defaultOpenAIURL),
		retries: opts.Retries,
		client:  opts.client(),
		logger:  opts.logger(),
	}, nil
}

func (o *OpenAI) Name() string  { return o.name }
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, req Request) (Response, error) {
	body := openaiRequest{
		Model:       o.model,
		Messages:    []openaiMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, errors.Wrap(err, "marshaling request")
	}

	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}
	for k, v := range o.headers {
		headers[k] = v
	}

	var resp Response
	err = retry(ctx, o.retries, o.logger, func() error {
		var result openaiResponse
		if err := postJSON(ctx, o.client, o.baseURL, headers, payload, &result); err != nil {
			return err
		}
		if len(result.Choices) == 0 {
			return errors.New("no choices in response")
		}
		content := strings.TrimSpace(result.Choices[0].Message.Content)
		if content == "" {
			return ErrEmptyCompletion
		}
		resp = Response{
			Content:    content,
			TokensUsed: result.Usage.TotalTokens,
		}
		return nil
	})
	if err != nil {
		return Response{}, errors.Wrapf(err, "%s", o.name)
	}
	return resp, nil
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiUsage struct {
	TotalTokens int `json:"total_tokens"`
}
