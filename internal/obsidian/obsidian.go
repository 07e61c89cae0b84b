package obsidian

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	DefaultURL      = "http://127.0.0.1:27123"
	DefaultNotePath = "gitscribe/commits.md"
	DefaultHeading  = "Commits"

	requestTimeout = 10 * time.Second
)

var (
	// ErrDisabled is returned by New when publishing is turned off.
	ErrDisabled = errors.New("obsidian publishing is disabled")
	// ErrMissingAPIKey is returned by New when OBSIDIAN_API_KEY is unset.
	ErrMissingAPIKey = errors.New("OBSIDIAN_API_KEY is not set")
)

// Config selects the vault note entries are appended to.
type Config struct {
	Enabled  bool
	URL      string
	NotePath string
	Heading  string
}

// Entry is one generated commit message.
type Entry struct {
	Time    time.Time
	Branch  string
	Message string
	Files   []string
}

// Markdown renders the entry as a list item with the subject line and an
// indented file list.
func (e Entry) Markdown() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(e.Message), "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "- %s", e.Time.Format(time.RFC3339))
	if e.Branch != "" {
		fmt.Fprintf(&b, " [%s]", e.Branch)
	}
	fmt.Fprintf(&b, " %s\n", strings.TrimSpace(subject))
	for _, f := range e.Files {
		fmt.Fprintf(&b, "    - `%s`\n", f)
	}
	return b.String()
}

// Client publishes entries to one note.
type Client struct {
	endpoint string
	apiKey   string
	heading  string
	client   *http.Client
	logger   *zap.Logger
}

// New creates a Client from cfg and the API key.
func New(cfg Config, apiKey string, logger *zap.Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(orDefault(cfg.URL, DefaultURL), "/")
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrapf(err, "parsing obsidian url %q", base)
	}
	return &Client{
		endpoint: base + "/vault/" + escapePath(orDefault(cfg.NotePath, DefaultNotePath)),
		apiKey:   apiKey,
		heading:  orDefault(cfg.Heading, DefaultHeading),
		client:   &http.Client{Timeout: requestTimeout},
		logger:   logger,
	}, nil
}

// Publish appends e under the configured heading.
func (c *Client) Publish(ctx context.Context, e Entry) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint, strings.NewReader(e.Markdown()))
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "text/markdown")
	req.Header.Set("Operation", "append")
	req.Header.Set("Target-Type", "heading")
	req.Header.Set("Target", url.PathEscape(c.heading))

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf("obsidian API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	c.logger.Debug("published to obsidian", zap.String("endpoint", c.endpoint))
	return nil
}

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
