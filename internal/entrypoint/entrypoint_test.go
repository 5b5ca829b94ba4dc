package entrypoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

func TestSessionSecret(t *testing.T) {
	t.Run("decodes hex", func(t *testing.T) {
		b, err := sessionSecret("00ff")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff}, b)
	})

	t.Run("keeps raw strings", func(t *testing.T) {
		b, err := sessionSecret("not-hex!")
		require.NoError(t, err)
		assert.Equal(t, []byte("not-hex!"), b)
	})

	t.Run("generates when empty", func(t *testing.T) {
		b, err := sessionSecret("")
		require.NoError(t, err)
		assert.Len(t, b, 32)
	})
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, filepath.Clean("./data/app.db"), sqlitePath(config.Database{Driver: config.DatabaseDriverSQLite, Path: "./data/app.db"}))
	assert.Equal(t, "", sqlitePath(config.Database{Driver: config.DatabaseDriverPostgres, DSN: "postgres://"}))
}
