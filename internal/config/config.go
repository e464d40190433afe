// Package config loads and holds all compression engine configuration.
// Settings are layered: defaults → compress-config.json → environment
// variables (env vars win).
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds the full pipeline configuration.
type Config struct {
	ServicePort int    `json:"servicePort"`
	LogLevel    string `json:"logLevel"`

	// Aggressive enables stages 5 and 6 (semantic pruning and
	// summarization) by default for calls that don't specify the option
	// explicitly.
	Aggressive bool `json:"aggressive"`

	// SubstitutionSourceFile is the path a FileLoader reads the phrase
	// substitution table from. Empty means no external source is
	// configured; the table falls back to its built-in set.
	SubstitutionSourceFile string `json:"substitutionSourceFile"`

	// SubstitutionCacheFile is the path to the bbolt persistent cache that
	// remembers the last successfully loaded substitution table across
	// restarts. Empty means in-memory only (no persistence).
	SubstitutionCacheFile string `json:"substitutionCacheFile"`

	// SubstitutionCacheCapacity bounds the S3-FIFO in-memory layer fronting
	// the substitution cache. 0 disables S3-FIFO: the cache is then the bare
	// store chosen by SubstitutionCacheFile (bbolt, or an unbounded in-memory
	// map when that path is empty).
	SubstitutionCacheCapacity int `json:"substitutionCacheCapacity"`

	ServiceToken string `json:"serviceToken"`
	BindAddress  string `json:"bindAddress"`
}

// Load returns config with defaults overridden by compress-config.json and
// env vars.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "compress-config.json")
	loadEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		ServicePort:               8090,
		LogLevel:                  "info",
		Aggressive:                false,
		SubstitutionSourceFile:    "",
		SubstitutionCacheFile:     "substitution-cache.db",
		SubstitutionCacheCapacity: 5_000,
		BindAddress:               "127.0.0.1",
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G703: path is a controlled config file path, not user input
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ServicePort = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AGGRESSIVE"); v != "" {
		cfg.Aggressive = v == "true"
	}
	if v := os.Getenv("SUBSTITUTION_SOURCE_FILE"); v != "" {
		cfg.SubstitutionSourceFile = v
	}
	if v := os.Getenv("SUBSTITUTION_CACHE_FILE"); v != "" {
		cfg.SubstitutionCacheFile = v
	}
	if v := os.Getenv("SUBSTITUTION_CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.SubstitutionCacheCapacity = n
		}
	}
	if v := os.Getenv("BIND_ADDRESS"); v != "" {
		cfg.BindAddress = v
	}
	if v := os.Getenv("SERVICE_TOKEN"); v != "" {
		cfg.ServiceToken = v
	}
}
