package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/gitscribe/internal/commitmsg"
	"github.com/dshills/gitscribe/internal/config"
	"github.com/dshills/gitscribe/internal/logging"
	"github.com/dshills/gitscribe/internal/output"
	"github.com/dshills/gitscribe/internal/providers"
)

var version = "0.1.0"

const (
	ExitSuccess      = 0
	ExitNoChanges    = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// errUsage marks errors caused by invalid flags or arguments.
var errUsage = errors.New("usage error")

// Persistent flags
var (
	flagVerbose bool
	flagEnvFile string
	flagRepoDir string
)

var rootCmd = &cobra.Command{
	Use:           "gitscribe",
	Short:         "Generate commit messages from pending git changes",
	Long:          "gitscribe builds a size-guarded context from your staged (or unstaged) changes and asks an LLM provider for a Conventional Commits message.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// logger is replaced by loadConfig once the log level is known.
var logger = zap.NewNop()

// Run executes the root command and returns an exit code.
func Run() int {
	exitCode = ExitSuccess
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail reports err on stderr and records the matching exit code.
func fail(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	exitCode = exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, commitmsg.ErrNoChanges):
		return ExitNoChanges
	case providers.IsAuthError(err), errors.Is(err, providers.ErrMissingAPIKey):
		return ExitAuthError
	case errors.IsAny(err, errUsage, providers.ErrUnknownProvider, output.ErrUnsupportedFormat, config.ErrUnknownKey):
		return ExitUsageError
	default:
		return ExitRuntimeError
	}
}

// loadConfig applies --env-file, merges the configuration and installs the
// logger at the configured level.
func loadConfig(overrides map[string]any) (config.Config, error) {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return config.Config{}, errors.Mark(err, errUsage)
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return config.Config{}, errors.Mark(err, errUsage)
	}
	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	l, err := logging.New(level, os.Stderr)
	if err != nil {
		return config.Config{}, errors.Mark(err, errUsage)
	}
	logger = l
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gitscribe version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gitscribe version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from a dotenv file")
	rootCmd.PersistentFlags().StringVarP(&flagRepoDir, "repo", "C", "", "Run as if started in this directory")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
