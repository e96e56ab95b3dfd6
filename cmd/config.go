package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/storage"
	"partner-panel/view"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL          string `json:"api_url"`
	TenantID        string `json:"tenant_id"`
	PageSize        int    `json:"page_size"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
	Currency        string `json:"currency"`
}

func defaultConfig() Config {
	return Config{
		APIURL:          api.DefaultBaseURL,
		PageSize:        view.DefaultPageSize,
		CacheTTLSeconds: int(cache.DefaultTTL.Seconds()),
		Currency:        view.DefaultCurrency,
	}
}

// loadConfig layers the config file, then .env, then the environment.
func loadConfig() (Config, error) {
	conf := defaultConfig()

	fromFile, err := readConfigFile()
	if err != nil {
		return Config{}, err
	}
	conf = mergeConfig(conf, fromFile)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("could not load .env")
	}
	return applyEnv(conf, os.LookupEnv), nil
}

func readConfigFile() (Config, error) {
	path, err := storage.ConfigPath()
	if err != nil {
		return Config{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("config path is a directory: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var conf Config
	if err := json.NewDecoder(file).Decode(&conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func mergeConfig(base, override Config) Config {
	if override.APIURL != "" {
		base.APIURL = override.APIURL
	}
	if override.TenantID != "" {
		base.TenantID = override.TenantID
	}
	if override.PageSize > 0 {
		base.PageSize = override.PageSize
	}
	if override.CacheTTLSeconds > 0 {
		base.CacheTTLSeconds = override.CacheTTLSeconds
	}
	if override.Currency != "" {
		base.Currency = override.Currency
	}
	return base
}

func applyEnv(conf Config, lookup func(string) (string, bool)) Config {
	if v, ok := lookup("PARTNER_API_URL"); ok && strings.TrimSpace(v) != "" {
		conf.APIURL = strings.TrimSpace(v)
	}
	if v, ok := lookup("PARTNER_TENANT_ID"); ok && strings.TrimSpace(v) != "" {
		conf.TenantID = strings.TrimSpace(v)
	}
	if v, ok := lookup("PARTNER_PAGE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			conf.PageSize = n
		}
	}
	if v, ok := lookup("PARTNER_CACHE_TTL"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			conf.CacheTTLSeconds = n
		}
	}
	if v, ok := lookup("PARTNER_CURRENCY"); ok && strings.TrimSpace(v) != "" {
		conf.Currency = strings.ToUpper(strings.TrimSpace(v))
	}
	return conf
}
