package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/gitscribe/internal/commitmsg"
	"github.com/dshills/gitscribe/internal/config"
	"github.com/dshills/gitscribe/internal/obsidian"
	"github.com/dshills/gitscribe/internal/output"
	"github.com/dshills/gitscribe/internal/sink"
)

// Shared generate flags
var (
	flagUnstaged      bool
	flagInstructions  string
	flagPrevious      string
	flagRegenerate    bool
	flagProvider      string
	flagModel         string
	flagCommitMsgFile string
	flagCopy          bool
	flagFormat        string
	flagObsidian      bool
	flagProgress      bool
	flagExclude       string
	flagMaxDiffSize   int
	flagRetries       int
	flagTimeout       int
	flagNoRedact      bool
	flagNoCache       bool
	flagShowPrompt    bool
)

// clipboardFallback receives the message when no other sink takes it.
var clipboardFallback sink.Clipboard = sink.SystemClipboard{}

func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagUnstaged, "unstaged", false, "Describe working tree changes instead of the index")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Extra path globs to leave out of the diff (comma-separated)")
	cmd.Flags().IntVar(&flagMaxDiffSize, "max-diff-size", 0, "Diff length in characters above which files are summarized")
	cmd.Flags().StringVar(&flagInstructions, "instructions", "", "Extra instructions appended to the prompt")
	cmd.Flags().StringVar(&flagPrevious, "previous", "", "Ask for a message substantially different from this one")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]any {
	m := make(map[string]any)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagUnstaged {
		m["staged"] = false
	}
	if flagInstructions != "" {
		m["customInstructions"] = flagInstructions
	}
	if flagExclude != "" {
		m["exclude"] = splitComma(flagExclude)
	}
	if flagMaxDiffSize > 0 {
		m["maxDiffSize"] = flagMaxDiffSize
	}
	if flagRetries > 0 {
		m["retries"] = flagRetries
	}
	if flagTimeout > 0 {
		m["timeoutSeconds"] = flagTimeout
	}
	if flagObsidian {
		m["obsidian.enabled"] = true
	}
	if flagNoRedact {
		m["privacy.redactSecrets"] = false
	}
	if flagNoCache {
		m["cache.enabled"] = false
	}
	return m
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a commit message for pending changes",
	Long: `Generate a commit message for the staged changes (or --unstaged).

The message is printed to stdout, or written into --commit-msg-file as the
prepare-commit-msg hook does. When the file cannot be written, or --copy is
given, the message is copied to the clipboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides())
		if err != nil {
			fail(cmd, err)
			return nil
		}
		if err := runGenerate(cmd, cfg); err != nil {
			fail(cmd, err)
		}
		return nil
	},
}

func runGenerate(cmd *cobra.Command, cfg config.Config) error {
	if flagPrevious != "" && flagRegenerate {
		return errors.Mark(errors.New("--previous and --regenerate are mutually exclusive"), errUsage)
	}
	if _, err := output.GetWriter(cfg.Format); err != nil {
		return err
	}
	if !cfg.Privacy.RedactSecrets {
		fmt.Fprintln(cmd.ErrOrStderr(), "WARNING: secret redaction is disabled")
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	repo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	p, err := newProvider(cfg)
	if err != nil {
		return err
	}
	gen := newGenerator(repo, p, cfg)

	opts := commitmsg.Options{
		Staged:             cfg.Staged,
		CustomInstructions: cfg.CustomInstructions,
		PreviousMessage:    flagPrevious,
	}
	if flagRegenerate {
		prev, ok := gen.LastMessage()
		if !ok {
			return errors.Mark(errors.New("no previous message recorded for this repository"), errUsage)
		}
		opts.PreviousMessage = prev
	}
	if flagProgress {
		opts.OnProgress = func(pct float64) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rCollecting diffs: %3.0f%%", pct)
			if pct >= 100 {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	res, err := gen.Generate(ctx, opts)
	if err != nil {
		return err
	}
	logger.Info("commit message generated",
		zap.String("run_id", res.RunID),
		zap.String("provider", res.Provider),
		zap.String("model", res.Model),
		zap.Bool("cached", res.Cached),
		zap.Bool("truncated", res.Truncated),
		zap.Int64("duration_ms", res.DurationMs))

	if err := deliver(cmd, cfg, res); err != nil {
		return err
	}
	if cfg.Obsidian.Enabled {
		publish(cmd, cfg, res)
	}
	return nil
}

// deliver hands the message to the commit message file, or prints it.
func deliver(cmd *cobra.Command, cfg config.Config, res commitmsg.Result) error {
	out := cmd.OutOrStdout()
	switch {
	case flagCommitMsgFile != "":
		d, err := sink.Deliver(sink.FileSink{Path: flagCommitMsgFile}, clipboardFallback, res.Message)
		if err != nil {
			return err
		}
		if d == sink.DeliveredClipboard {
			fmt.Fprintln(cmd.ErrOrStderr(), "gitscribe: could not write the commit message file; message copied to clipboard")
		}
		return nil
	case cfg.Format == "" || cfg.Format == "text":
		if _, err := sink.Deliver(sink.WriterSink{W: out}, nil, res.Message); err != nil {
			return err
		}
	default:
		if err := output.WriteResult(out, res, cfg.Format); err != nil {
			return err
		}
	}
	if flagCopy {
		if _, err := sink.Deliver(nil, clipboardFallback, res.Message); err != nil {
			logger.Warn("copying to clipboard failed", zap.Error(err))
		}
	}
	return nil
}

// publish appends the message to the Obsidian note. Failures are logged only.
func publish(cmd *cobra.Command, cfg config.Config, res commitmsg.Result) {
	client, err := obsidian.New(obsidian.Config{
		Enabled:  cfg.Obsidian.Enabled,
		URL:      cfg.Obsidian.URL,
		NotePath: cfg.Obsidian.NotePath,
		Heading:  cfg.Obsidian.Heading,
	}, os.Getenv("OBSIDIAN_API_KEY"), logger)
	if err != nil {
		logger.Warn("obsidian publishing skipped", zap.Error(err))
		return
	}
	err = client.Publish(cmd.Context(), obsidian.Entry{
		Time:    time.Now(),
		Branch:  res.Branch,
		Message: res.Message,
		Files:   res.Files,
	})
	if err != nil {
		logger.Warn("obsidian publishing failed", zap.Error(err))
	}
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the context or prompt that generate would send",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides())
		if err != nil {
			fail(cmd, err)
			return nil
		}
		ctx, cancel := commandContext(cfg)
		defer cancel()

		repo, err := openRepo(ctx, cfg)
		if err != nil {
			fail(cmd, err)
			return nil
		}
		gen := commitmsg.NewGenerator(repo, nil, nil, commitmsg.Settings{
			RedactSecrets: cfg.Privacy.RedactSecrets,
		}, logger)
		c, _, prompt, err := gen.Prepare(ctx, commitmsg.Options{
			Staged:             cfg.Staged,
			CustomInstructions: cfg.CustomInstructions,
			PreviousMessage:    flagPrevious,
		})
		if err != nil {
			fail(cmd, err)
			return nil
		}
		if flagShowPrompt {
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), c.String())
		}
		return nil
	},
}

func init() {
	addScopeFlags(generateCmd)
	generateCmd.Flags().BoolVar(&flagRegenerate, "regenerate", false, "Ask for a different message than the last one generated here")
	generateCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (openai, anthropic, openrouter)")
	generateCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	generateCmd.Flags().StringVar(&flagCommitMsgFile, "commit-msg-file", "", "Write the message into this commit message file")
	generateCmd.Flags().BoolVar(&flagCopy, "copy", false, "Also copy the message to the clipboard")
	generateCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	generateCmd.Flags().BoolVar(&flagObsidian, "obsidian", false, "Append the message to the configured Obsidian note")
	generateCmd.Flags().BoolVar(&flagProgress, "progress", false, "Report diff collection progress on stderr")
	generateCmd.Flags().IntVar(&flagRetries, "retries", 0, "Retries after rate-limit or server errors")
	generateCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Overall timeout in seconds")
	generateCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the message cache")

	addScopeFlags(contextCmd)
	contextCmd.Flags().BoolVar(&flagShowPrompt, "prompt", false, "Print the rendered prompt instead of the context")
}
