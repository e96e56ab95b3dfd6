package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	aliasesFile = "aliases.json"
	cacheFile   = "cache.db"
	credsFile   = "credentials.json"
	configFile  = "config.json"
)

// ConfigDir is ~/.config/partner-panel unless PARTNER_CONFIG_DIR is set.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PARTNER_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "partner-panel"), nil
}

func ConfigPath() (string, error) {
	return inConfigDir(configFile)
}

func AliasesPath() (string, error) {
	return inConfigDir(aliasesFile)
}

func CachePath() (string, error) {
	return inConfigDir(cacheFile)
}

func CredentialsPath() (string, error) {
	return inConfigDir(credsFile)
}

func inConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func ensureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}
