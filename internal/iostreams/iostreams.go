// Package iostreams detects interactivity and renders yes/no prompts. The
// interactive line editor itself is out of scope; this package
// only answers "can I ask the user a question" and asks it.
package iostreams

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// IOStreams bundles the process's standard streams with interactivity
// detection, so callers don't each re-derive it from os.Stdin/TAKT_NO_TTY.
type IOStreams struct {
	In  *os.File
	Out *os.File
	Err *os.File
}

// System returns an IOStreams wired to the process's real stdio.
func System() *IOStreams {
	return &IOStreams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// IsInteractive reports whether prompts should be shown: both stdin and
// stdout must be a terminal, and TAKT_NO_TTY must not be set.
func (s *IOStreams) IsInteractive() bool {
	if os.Getenv("TAKT_NO_TTY") == "1" {
		return false
	}
	return term.IsTerminal(int(s.In.Fd())) && term.IsTerminal(int(s.Out.Fd()))
}

// Confirm prints prompt and reads a yes/no answer from In. Non-interactive
// streams always answer false without reading, so pipeline callers never
// block.
func (s *IOStreams) Confirm(prompt string) bool {
	if !s.IsInteractive() {
		return false
	}
	fmt.Fprintf(s.Out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(s.In).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
