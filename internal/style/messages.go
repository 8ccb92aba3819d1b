package style

import (
	"fmt"
	"os"
)

// PrintWarning writes a yellow "warning:" line to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Warn.Render("warning:")+" "+fmt.Sprintf(format, args...))
}

// PrintError writes a red "error:" line to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Bad.Render("error:")+" "+fmt.Sprintf(format, args...))
}

// PrintInfo writes a plain informational line to stderr.
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
}

// PrintSuccess writes a green confirmation line to stderr.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Good.Render("done:")+" "+fmt.Sprintf(format, args...))
}

// PrintHint writes a dim follow-up suggestion to stderr, used for
// ProviderError subclass hints and migration guidance.
func PrintHint(format string, args ...any) {
	fmt.Fprintln(os.Stderr, "  "+fmt.Sprintf(format, args...))
}
