package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dshills/gitscribe/internal/cache"
	"github.com/dshills/gitscribe/internal/commitmsg"
	"github.com/dshills/gitscribe/internal/config"
	"github.com/dshills/gitscribe/internal/exclude"
	"github.com/dshills/gitscribe/internal/gitctx"
	"github.com/dshills/gitscribe/internal/providers"
)

// gitRunner is shared by every command; tests may replace it.
var gitRunner gitctx.Runner = gitctx.ExecRunner{}

// commandContext applies timeoutSeconds when set.
func commandContext(cfg config.Config) (context.Context, context.CancelFunc) {
	if cfg.TimeoutSeconds > 0 {
		return context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	}
	return context.WithCancel(context.Background())
}

func workDir() (string, error) {
	if flagRepoDir != "" {
		return flagRepoDir, nil
	}
	return os.Getwd()
}

// openRepo locates the workspace root and compiles the exclusion rules once
// for this session.
func openRepo(ctx context.Context, cfg config.Config) (*gitctx.Repo, error) {
	dir, err := workDir()
	if err != nil {
		return nil, errors.Wrap(err, "determining working directory")
	}
	root, err := gitctx.FindRoot(ctx, gitRunner, dir)
	if err != nil {
		return nil, err
	}
	rules := exclude.New(exclude.Options{
		Root:             root,
		RespectGitignore: cfg.RespectGitignore,
		Extra:            cfg.Exclude,
	}, logger)
	logger.Debug("repository opened",
		zap.String("root", root),
		zap.Int("gitignore_patterns", rules.ProjectPatterns()))

	opts := []gitctx.Option{gitctx.WithRunner(gitRunner)}
	if cfg.MaxDiffSize > 0 {
		opts = append(opts, gitctx.WithMaxDiffSize(cfg.MaxDiffSize))
	}
	return gitctx.NewRepo(root, rules, logger, opts...), nil
}

func newProvider(cfg config.Config) (providers.Provider, error) {
	return providers.New(cfg.Provider, cfg.Model, providers.Options{
		Retries: cfg.Retries,
		Referer: cfg.OpenRouter.Referer,
		Title:   cfg.OpenRouter.Title,
		Logger:  logger,
	})
}

// openCache never fails the command: an unusable cache directory only
// disables caching.
func openCache(cfg config.Config) *cache.Cache {
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		logger.Warn("cache unavailable", zap.Error(err))
		return nil
	}
	return c
}

func newGenerator(repo *gitctx.Repo, p providers.Provider, cfg config.Config) *commitmsg.Generator {
	return commitmsg.NewGenerator(repo, p, openCache(cfg), commitmsg.Settings{
		MaxTokens:     cfg.MaxTokens,
		Temperature:   cfg.Temperature,
		RedactSecrets: cfg.Privacy.RedactSecrets,
	}, logger)
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
