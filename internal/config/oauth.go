package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OAuthClientConfig holds the Google OAuth client used to send schedule
// email. The JSON layout matches the installed-application credentials
// file downloaded from the Google Cloud console.
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

// OAuthInstalled is the "installed" section of the credentials file.
type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

const oauthFileBase = "duty_roster_oauth"

// LoadOAuthClientWithEnv loads the OAuth client credentials for one
// environment: env="prod" resolves duty_roster_oauth.prod.json, an empty
// env falls back to duty_roster_oauth.json. The file is looked for in the
// working directory first, then in the home directory, same as the main
// config file.
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	name := oauthFileBase + ".json"
	if env != "" {
		name = fmt.Sprintf("%s.%s.json", oauthFileBase, env)
	}

	for _, dir := range credentialDirs() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadOAuthClientFromPath(path)
		}
	}

	return nil, fmt.Errorf("oauth credentials file %s not found in working or home directory", name)
}

// LoadOAuthClientFromPath loads and validates OAuth client credentials
// from a specific file.
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth credentials file: %w", err)
	}

	var cfg OAuthClientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth credentials file: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("oauth credentials validation failed: %w", err)
	}

	return &cfg, nil
}

func credentialDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return dirs
}
