package util

import "golang.org/x/term"

// IsTerminal reports whether fd is attached to an interactive
// terminal. Migration renders a progress bar only when stdout is one;
// piped or redirected runs fall back to plain log lines.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
