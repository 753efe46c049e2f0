package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-man2html/internal/config"
)

// envPrefix marks the variables read by man2html.
const envPrefix = "MAN2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MAN2HTML_CONFIG: config file name or path
	Style      string        // MAN2HTML_STYLE: CSS style name or path
	Timeout    time.Duration // MAN2HTML_TIMEOUT: PDF generation timeout

	// Tier 2 - Lookup and output
	OutputDir string // MAN2HTML_OUTPUT_DIR: default output directory
	Lang      string // MAN2HTML_LANG: page language, C for untranslated
	XRefURL   string // MAN2HTML_XREF_URL: cross-reference link pattern

	// Tier 3 - Extended
	PageSize string // MAN2HTML_PAGE_SIZE: a4, letter, legal
	Workers  int    // MAN2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid MAN2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MAN2HTML_CONFIG":  true,
	"MAN2HTML_STYLE":   true,
	"MAN2HTML_TIMEOUT": true,
	// Tier 2 - Lookup and output
	"MAN2HTML_OUTPUT_DIR": true,
	"MAN2HTML_LANG":       true,
	"MAN2HTML_XREF_URL":   true,
	// Tier 3 - Extended
	"MAN2HTML_PAGE_SIZE": true,
	"MAN2HTML_WORKERS":   true,
	// Read by doctor only
	"MAN2HTML_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MAN2HTML_CONFIG"),
		Style:      os.Getenv("MAN2HTML_STYLE"),
		OutputDir:  os.Getenv("MAN2HTML_OUTPUT_DIR"),
		Lang:       os.Getenv("MAN2HTML_LANG"),
		XRefURL:    os.Getenv("MAN2HTML_XREF_URL"),
		PageSize:   os.Getenv("MAN2HTML_PAGE_SIZE"),
	}

	if timeout := os.Getenv("MAN2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MAN2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized MAN2HTML_*
// variable, catching typos like MAN2HTML_STYEL.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", slog.String("name", name))
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Style (timeout handled separately in resolveTimeout)
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}

	// Tier 2 - Lookup and output
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Lang != "" && cfg.ManPath.Lang == "" {
		cfg.ManPath.Lang = env.Lang
	}
	if env.XRefURL != "" && cfg.XRef.URLPattern == "" {
		cfg.XRef.URLPattern = env.XRefURL
		cfg.XRef.Enabled = true
	}

	// Tier 3 - Page and workers
	if env.PageSize != "" && cfg.PDF.Page.Size == "" {
		cfg.PDF.Page.Size = env.PageSize
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
