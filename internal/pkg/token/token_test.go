package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsWellFormed(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.True(t, WellFormed(tok))
}

func TestNew_Unique(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWellFormed(t *testing.T) {
	valid := strings.Repeat("a", 64)
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid all-hex", valid, true},
		{"empty", "", false},
		{"too short", valid[:63], false},
		{"too long", valid + "a", false},
		{"uppercase hex", strings.Repeat("A", 64), false},
		{"non-hex chars", strings.Repeat("g", 64), false},
		{"embedded whitespace", valid[:32] + " " + valid[:31], false},
		{"path traversal", "../" + valid[:61], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WellFormed(tt.token))
		})
	}
}
