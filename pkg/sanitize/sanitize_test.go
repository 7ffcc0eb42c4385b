package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "preserves newlines and tabs",
			input:    "a\tb\nc",
			expected: "a\tb\nc",
		},
		{
			name:     "strips CSI color codes",
			input:    "\x1b[31mred\x1b[0m text",
			expected: "red text",
		},
		{
			name:     "strips OSC title sequence",
			input:    "\x1b]0;window title\x07output",
			expected: "output",
		},
		{
			name:     "strips cursor movement",
			input:    "\x1b[2J\x1b[Hcleared",
			expected: "cleared",
		},
		{
			name:     "normalizes CRLF",
			input:    "line1\r\nline2\r\n",
			expected: "line1\nline2\n",
		},
		{
			name:     "drops lone carriage return",
			input:    "progress\rdone",
			expected: "progressdone",
		},
		{
			name:     "drops C0 controls",
			input:    "a\x00b\x01c\x08d",
			expected: "abcd",
		},
		{
			name:     "drops DEL",
			input:    "a\x7fb",
			expected: "ab",
		},
		{
			name:     "keeps unicode",
			input:    "héllo → wörld",
			expected: "héllo → wörld",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Output(tt.input))
		})
	}
}

func TestOutputIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"\x1b[1;32mbold green\x1b[0m",
		"mixed\r\ncrlf\rand\x07bell",
		"\x1b]2;titled\x1b\\tail",
		"a\tb\nc",
	}
	for _, in := range inputs {
		once := Output(in)
		assert.Equal(t, once, Output(once), "sanitize must be idempotent for %q", in)
	}
}
