package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/errors"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g. "he" inside "The").
func TestCensor_Apply(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"ferret", "weasel", "mongoose"}
	censor, err := NewCensor(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The ferret is here",
			expected: "The ****** is here",
			words:    []string{"ferret"},
		},
		{
			name:     "Multiple occurrences",
			input:    "ferret ferret ferret",
			expected: "****** ****** ******",
			words:    []string{"ferret", "ferret", "ferret"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at F.3.r.r.3.t !",
			expected: "Look at *********** !",
			words:    []string{"ferret"},
		},
		{
			name:     "Uppercase and noise",
			input:    "W-E-A-S-E-L is a F.E.R.R.E.T",
			expected: "*********** is a ***********",
			words:    []string{"weasel", "ferret"},
		},
		{
			name:     "Nothing to mask",
			input:    "chat-relay is fine",
			expected: "chat-relay is fine",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked, words := censor.Apply(tt.input)
			req.Equal(tt.expected, masked, "test=%s", tt.name)
			req.Equal(tt.words, words)
		})
	}
}

func TestCensor_NilReceiverPassesThrough(t *testing.T) {
	req := require.New(t)

	var censor *Censor
	masked, words := censor.Apply("anything at all")
	req.Equal("anything at all", masked)
	req.Nil(words)
}

func TestCensor_RejectsEmptyDictionary(t *testing.T) {
	req := require.New(t)

	// Given only noise and empty entries
	_, err := NewCensor([]string{"...", "", ",,,"}, replacementChar)

	// Then the censor refuses to build
	req.ErrorIs(err, errors.ErrEmptyWords)
}
