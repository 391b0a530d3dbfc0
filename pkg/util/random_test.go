package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShortLink(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9]+$`)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, err := GenerateShortLink(8)
		require.NoError(t, err)
		assert.Len(t, token, 8)
		assert.Regexp(t, pattern, token)
		seen[token] = struct{}{}
	}
	assert.Greater(t, len(seen), 45)
}

func TestGenerateShortLink_DefaultLength(t *testing.T) {
	token, err := GenerateShortLink(0)
	require.NoError(t, err)
	assert.Len(t, token, 6)
}
