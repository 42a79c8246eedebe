package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIdentityGeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identity")

	token, err := LoadIdentity(path)
	require.NoError(t, err)
	_, err = uuid.Parse(token)
	assert.NoError(t, err, "generated token is a UUID")

	again, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, token, again, "token is stable across loads")
}

func TestLoadIdentityReusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity")
	require.NoError(t, os.WriteFile(path, []byte("my-token\n"), 0o600))

	token, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, "my-token", token)
}

func TestLoadIdentityRegeneratesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	token, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
