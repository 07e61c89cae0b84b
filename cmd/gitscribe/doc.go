// Gitscribe is a local-first CLI that writes commit messages for pending git
// changes with LLM providers.
//
// It collects the staged (or unstaged) diff, summarizes oversized changes,
// redacts secrets, and asks the configured provider for a Conventional
// Commits message. Exit codes are deterministic so it can run from the
// prepare-commit-msg hook.
//
// Usage:
//
//	gitscribe generate                # message for staged changes
//	gitscribe generate --unstaged     # message for working tree changes
//	gitscribe generate --regenerate   # ask for a different message
//	gitscribe context --prompt        # show the prompt without calling a provider
//	gitscribe hook install            # install the prepare-commit-msg hook
package main
