package kit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("KIT_STR", "value")
	t.Setenv("KIT_INT", "42")
	t.Setenv("KIT_BAD_INT", "forty")
	t.Setenv("KIT_BOOL", "false")
	t.Setenv("KIT_LIST", " http://a.test, ,http://b.test ")

	assert.Equal(t, "value", Getenv("KIT_STR", "def"))
	assert.Equal(t, "def", Getenv("KIT_UNSET", "def"))
	assert.Equal(t, 42, GetenvInt("KIT_INT", 1))
	assert.Equal(t, 1, GetenvInt("KIT_BAD_INT", 1))
	assert.False(t, GetenvBool("KIT_BOOL", true))
	assert.True(t, GetenvBool("KIT_UNSET", true))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetenvList("KIT_LIST"))
	assert.Nil(t, GetenvList("KIT_UNSET"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KIT_FROM_FILE=yes\nKIT_PRESET=file\n"), 0o600))

	t.Setenv("KIT_PRESET", "env")
	t.Setenv("KIT_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("KIT_FROM_FILE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "yes", os.Getenv("KIT_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("KIT_PRESET"), "real environment wins")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
