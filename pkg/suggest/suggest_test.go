package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSimilar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		candidates []string
		maxResults int
		expected   []string
	}{
		{
			name:       "exact match first",
			target:     "hello",
			candidates: []string{"hello", "world", "help"},
			maxResults: 2,
			expected:   []string{"hello", "help"},
		},
		{
			name:       "typo in long option",
			target:     "verbos",
			candidates: []string{"version", "verbose", "help"},
			maxResults: 3,
			expected:   []string{"verbose", "version"},
		},
		{
			name:       "empty target",
			target:     "",
			candidates: []string{"hello", "world"},
			maxResults: 2,
			expected:   []string{},
		},
		{
			name:       "no matches",
			target:     "xyz",
			candidates: []string{"hello", "world"},
			maxResults: 2,
			expected:   []string{},
		},
		{
			name:       "invalid max results",
			target:     "hello",
			candidates: []string{"hello", "world"},
			maxResults: -1,
			expected:   []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FindSimilar(tt.target, tt.candidates, tt.maxResults))
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b     string
		expected float64
	}{
		{"hello", "hello", 1.0},
		{"Hello", "hello", 1.0},
		{"hel", "hello", 0.9},
		{"hello", "hello1", 0.9},
		{"hello", "world", 0.2},
		{"hello", "hallo", 0.8},
		{"", "", 1.0},
		{"hello", "", 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, similarity(tt.a, tt.b), 0.001, "similarity mismatch for %q and %q", tt.a, tt.b)
	}
}
