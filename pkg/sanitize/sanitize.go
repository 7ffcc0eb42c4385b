// Package sanitize cleans terminal output before it is persisted or shown
// to clients.
package sanitize

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Output strips ANSI escape sequences (CSI, OSC, and the rest of the C1
// set) and control characters from shell output. Tabs and newlines are
// preserved; CRLF is normalized to LF; any remaining lone carriage returns
// are dropped. The result contains only printable text plus '\n' and '\t'.
//
// Output is idempotent: applying it twice yields the same string.
func Output(s string) string {
	// Parser-based stripper handles CSI/OSC/DCS sequences, including ones
	// split across escape bytes, better than any regex would.
	s = ansi.Strip(s)

	// Normalize CRLF before filtering so the \r in \r\n is not treated as
	// a stray control character.
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' {
			b.WriteRune(r)
			continue
		}
		// Drop C0 controls (including lone \r) and the C1 range 0x80-0x9F.
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
