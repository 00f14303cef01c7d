package ui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether a human can answer a prompt: stdin and
// stderr are terminals and neither SPARKIFY_NON_INTERACTIVE=1 nor CI is set.
func IsInteractive() bool {
	return isInteractive(os.Getenv, func(fd uintptr) bool { return term.IsTerminal(int(fd)) })
}

func isInteractive(getenv func(string) string, isTerminal func(uintptr) bool) bool {
	if getenv("SPARKIFY_NON_INTERACTIVE") == "1" || getenv("CI") != "" {
		return false
	}
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stderr.Fd())
}
