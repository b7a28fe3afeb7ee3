package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCredentials = `{
  "installed": {
    "client_id": "client-id.apps.googleusercontent.com",
    "project_id": "duty-roster",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestLoadOAuthClientFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duty_roster_oauth.json")
	require.NoError(t, os.WriteFile(path, []byte(validCredentials), 0o600))

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "client-id.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, "duty-roster", cfg.Installed.ProjectID)
}

func TestLoadOAuthClientFromPathInvalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "incomplete.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"installed": {"client_id": "only-an-id"}}`), 0o600))
	_, err := LoadOAuthClientFromPath(path)
	assert.ErrorContains(t, err, "validation failed")

	path = filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = LoadOAuthClientFromPath(path)
	assert.ErrorContains(t, err, "failed to parse")

	_, err = LoadOAuthClientFromPath(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read")
}
