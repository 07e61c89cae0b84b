package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/gitscribe/internal/gitctx"
)

const (
	hookName        = "prepare-commit-msg"
	hookMarkerStart = "# >>> gitscribe prepare-commit-msg hook >>>"
	hookMarkerEnd   = "# <<< gitscribe prepare-commit-msg hook <<<"
)

var (
	hookProvider string
	hookUnstaged bool
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git prepare-commit-msg hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install gitscribe as a git prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			fail(cmd, err)
			return nil
		}

		section := generateHookScript(hookProvider, hookUnstaged)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			fail(cmd, errors.Wrap(err, "reading hook file"))
			return nil
		}

		var content string
		if os.IsNotExist(err) || len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			fail(cmd, errors.Wrap(err, "creating hooks directory"))
			return nil
		}
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fail(cmd, errors.Wrap(err, "writing hook file"))
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed gitscribe %s hook at %s\n", hookName, hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the gitscribe prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			fail(cmd, err)
			return nil
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s hook found.\n", hookName)
				return nil
			}
			fail(cmd, errors.Wrap(err, "reading hook file"))
			return nil
		}

		content := removeHookSection(string(existing))

		// If only the shebang remains, delete the file entirely
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				fail(cmd, errors.Wrap(err, "removing hook file"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed gitscribe %s hook at %s\n", hookName, hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fail(cmd, errors.Wrap(err, "writing hook file"))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed gitscribe section from %s\n", hookPath)
		return nil
	},
}

// getHookPath asks git where the hook lives, honoring core.hooksPath.
func getHookPath(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dir, err := workDir()
	if err != nil {
		return "", err
	}
	root, err := gitctx.FindRoot(ctx, gitRunner, dir)
	if err != nil {
		return "", err
	}
	out, err := gitRunner.Run(ctx, root, "rev-parse", "--git-path", "hooks/"+hookName)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "locating hooks directory"), gitctx.ErrGitCommand)
	}
	path := strings.TrimSpace(out)
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return path, nil
}

// generateHookScript fills the message only when git supplied no message
// source ($2 empty), and never blocks the commit.
func generateHookScript(provider string, unstaged bool) string {
	args := `generate --commit-msg-file "$1"`
	if provider != "" {
		args += " --provider " + provider
	}
	if unstaged {
		args += " --unstaged"
	}

	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString("if [ -z \"$2\" ]; then\n")
	fmt.Fprintf(&b, "  gitscribe %s\n", args)
	b.WriteString("  GITSCRIBE_EXIT=$?\n")
	b.WriteString("  if [ $GITSCRIBE_EXIT -ge 2 ]; then\n")
	b.WriteString("    echo \"gitscribe: could not generate a commit message (exit $GITSCRIBE_EXIT)\" >&2\n")
	b.WriteString("  fi\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")
	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().StringVar(&hookProvider, "provider", "", "Provider the hook passes to generate")
	hookInstallCmd.Flags().BoolVar(&hookUnstaged, "unstaged", false, "Describe unstaged changes from the hook")
}
