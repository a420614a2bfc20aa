// Package config loads application configuration from environment variables.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken string
	ListenAddr  string
}

// HasToken returns true when a GitHub token is configured. Used by the
// composition root to decide whether to create a GitHub client at startup or
// start with a nil source in the provider.
func (c *Config) HasToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from the environment, after loading a .env file
// if one exists in the working directory. The token (RELHIST_GITHUB_TOKEN)
// is optional; if absent, the app starts but repositories cannot be added
// until a token is provided via the API. RELHIST_LISTEN_ADDR defaults to
// 127.0.0.1:8080.
func Load() (*Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("RELHIST_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	return &Config{
		GitHubToken: os.Getenv("RELHIST_GITHUB_TOKEN"),
		ListenAddr:  listenAddr,
	}, nil
}
