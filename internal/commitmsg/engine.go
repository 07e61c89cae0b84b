package commitmsg

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/gitscribe/internal/cache"
	"github.com/dshills/gitscribe/internal/gitctx"
	"github.com/dshills/gitscribe/internal/providers"
	"github.com/dshills/gitscribe/internal/redact"
)

var (
	// ErrNoChanges is returned when the scope has nothing to describe.
	ErrNoChanges = errors.New("no changes to describe")
	// ErrEmptyMessage is returned when the provider reply is empty after Clean.
	ErrEmptyMessage = errors.New("provider returned an empty commit message")
)

// Source is the part of gitctx.Repo the generator depends on.
type Source interface {
	Root() string
	Enumerate(ctx context.Context, scope gitctx.Scope) ([]gitctx.Change, error)
	BuildWithProgress(ctx context.Context, changes []gitctx.Change, scope gitctx.Scope, onProgress gitctx.ProgressFunc) gitctx.Context
	Files(changes []gitctx.Change) []string
}

// Settings are the provider and privacy knobs fixed for a Generator.
type Settings struct {
	MaxTokens     int
	Temperature   float64
	RedactSecrets bool
}

// Options configure a single generation.
type Options struct {
	Staged             bool
	CustomInstructions string
	PreviousMessage    string
	OnProgress         gitctx.ProgressFunc
}

// Result is the outcome of one generation.
type Result struct {
	RunID      string   `json:"runId"`
	Message    string   `json:"message"`
	Provider   string   `json:"provider"`
	Model      string   `json:"model"`
	Staged     bool     `json:"staged"`
	Branch     string   `json:"branch,omitempty"`
	Truncated  bool     `json:"truncated"`
	Files      []string `json:"files"`
	TokensUsed int      `json:"tokensUsed,omitempty"`
	Cached     bool     `json:"cached"`
	DurationMs int64    `json:"durationMs"`
	Prompt     string   `json:"-"`
}

// Generator produces commit messages for one repository.
type Generator struct {
	src      Source
	provider providers.Provider
	cache    *cache.Cache
	settings Settings
	logger   *zap.Logger
}

// NewGenerator creates a Generator. cache may be nil.
func NewGenerator(src Source, provider providers.Provider, c *cache.Cache, settings Settings, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		src:      src,
		provider: provider,
		cache:    c,
		settings: settings,
		logger:   logger,
	}
}

// Prepare enumerates changes and returns the context and rendered prompt
// without calling the provider.
func (g *Generator) Prepare(ctx context.Context, opts Options) (gitctx.Context, []gitctx.Change, string, error) {
	scope := gitctx.Scope{Staged: opts.Staged}
	changes, err := g.src.Enumerate(ctx, scope)
	if err != nil {
		return gitctx.Context{}, nil, "", errors.Wrapf(err, "listing %s changes", scope)
	}
	if len(changes) == 0 {
		return gitctx.Context{}, nil, "", errors.Wrapf(ErrNoChanges, "%s", scope)
	}

	c := g.src.BuildWithProgress(ctx, changes, scope, opts.OnProgress)
	if g.settings.RedactSecrets {
		var n int
		c, n = redact.Context(c)
		if n > 0 {
			g.logger.Info("redacted secrets from context", zap.Int("count", n))
		}
	}
	return c, changes, Render(c, opts.CustomInstructions, opts.PreviousMessage), nil
}

// Generate runs the full pipeline and returns the cleaned message.
func (g *Generator) Generate(ctx context.Context, opts Options) (Result, error) {
	start := time.Now()
	c, changes, prompt, err := g.Prepare(ctx, opts)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:     uuid.NewString(),
		Provider:  g.provider.Name(),
		Model:     g.provider.Model(),
		Staged:    opts.Staged,
		Branch:    c.Branch,
		Truncated: c.Truncated,
		Files:     g.src.Files(changes),
		Prompt:    prompt,
	}
	logger := g.logger.With(zap.String("run_id", res.RunID))
	logger.Debug("prompt rendered",
		zap.Int("files", len(changes)),
		zap.Bool("truncated", c.Truncated),
		zap.Int("prompt_chars", len(prompt)))

	key := cache.BuildCacheKey(res.Provider, res.Model, prompt)
	if msg, ok := g.lookup(key); ok {
		logger.Debug("cache hit")
		res.Message = msg
		res.Cached = true
	} else {
		temperature := g.settings.Temperature
		resp, err := g.provider.Generate(ctx, providers.Request{
			Prompt:      prompt,
			MaxTokens:   g.settings.MaxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return Result{}, errors.Wrap(err, "generating commit message")
		}
		res.Message = Clean(resp.Content)
		res.TokensUsed = resp.TokensUsed
		if res.Message == "" {
			return Result{}, ErrEmptyMessage
		}
		if g.cache != nil {
			if err := g.cache.Put(key, res.Message); err != nil {
				logger.Warn("caching message failed", zap.Error(err))
			}
		}
	}

	if g.cache != nil {
		if err := g.cache.PutLast(g.src.Root(), res.Message); err != nil {
			logger.Warn("recording last message failed", zap.Error(err))
		}
	}
	res.DurationMs = time.Since(start).Milliseconds()
	return res, nil
}

func (g *Generator) lookup(key string) (string, bool) {
	if g.cache == nil {
		return "", false
	}
	return g.cache.Get(key)
}

// LastMessage returns the previous message generated for the repository.
func (g *Generator) LastMessage() (string, bool) {
	if g.cache == nil {
		return "", false
	}
	return g.cache.GetLast(g.src.Root())
}
