package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL = "http://localhost:5000"
	DefaultTheme  = "classic"

	clientDirName  = ".tasktrackr"
	clientFileName = "config.toml"
)

// Client is the terminal client's configuration.
type Client struct {
	APIURL string `toml:"api_url"`
	Theme  string `toml:"theme"`
}

// DefaultClientPath is ~/.tasktrackr/config.toml.
func DefaultClientPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, clientDirName, clientFileName), nil
}

// LoadClient reads path if it exists, then applies API_URL from the
// environment. A missing file is not an error.
func LoadClient(path string) (Client, error) {
	cfg := Client{APIURL: DefaultAPIURL, Theme: DefaultTheme}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if env := strings.TrimSpace(os.Getenv("API_URL")); env != "" {
		cfg.APIURL = env
	}
	cfg.APIURL = NormalizeAPIURL(cfg.APIURL)
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	return cfg, nil
}

// NormalizeAPIURL adds a missing http scheme and drops trailing slashes,
// so "localhost:5000/" becomes "http://localhost:5000".
func NormalizeAPIURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return DefaultAPIURL
	}
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	return strings.TrimRight(u, "/")
}
