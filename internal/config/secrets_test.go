package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSecret(t *testing.T) {
	t.Run("inline value", func(t *testing.T) {
		v, err := LoadSecret(Secret{Name: "token", Value: " abc "})
		require.NoError(t, err)
		assert.Equal(t, "abc", v)
	})

	t.Run("file wins", func(t *testing.T) {
		path := writeFile(t, "token", "from-file\n")
		v, err := LoadSecret(Secret{Name: "token", Value: "inline", File: path})
		require.NoError(t, err)
		assert.Equal(t, "from-file", v)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "token", "  \n")
		_, err := LoadSecret(Secret{Name: "token", File: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSecret(Secret{Name: "token", File: filepath.Join(t.TempDir(), "nope")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading token from file")
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := LoadSecret(Secret{Name: "token"})
		assert.ErrorIs(t, err, ErrSecretNotConfigured)
	})
}
