package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GenShareToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := GenShareToken()
		require.NoError(t, err)
		// 24 bytes -> 32 chars of raw url-safe base64
		assert.Len(t, token, 32)
		assert.False(t, seen[token], "token repeated: %s", token)
		seen[token] = true
	}
}

func Test_ParseAcceptLanguage(t *testing.T) {
	langs := ParseAcceptLanguage("es;q=0.9,en;q=1.0")
	require.Len(t, langs, 2)
	assert.Equal(t, "en", langs[0].Tag)
	assert.Equal(t, "es", langs[1].Tag)

	assert.Empty(t, ParseAcceptLanguage(""))
}
