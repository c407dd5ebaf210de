// Package config provides configuration loading for the commit gate
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileName is the optional per-repository environment file consumed by Load
const EnvFileName = ".commitgate.env"

// Config holds the configuration for the commit gate pipeline
type Config struct {
	// Core settings
	Enabled  bool   // COMMITGATE_ENABLED
	Timeout  int    // COMMITGATE_TIMEOUT_SECONDS (whole pipeline)
	Verbose  bool   // COMMITGATE_VERBOSE
	RepoRoot string // derived, not read from the environment

	// Stage toggles
	Checks struct {
		ConflictMarkers bool // COMMITGATE_ENABLE_CONFLICT_MARKERS
		Style           bool // COMMITGATE_ENABLE_STYLE
		ShellSyntax     bool // COMMITGATE_ENABLE_SHELL_SYNTAX
		Dictionary      bool // COMMITGATE_ENABLE_DICTIONARY
		BinaryContent   bool // COMMITGATE_ENABLE_BINARY_CONTENT
		Paths           bool // COMMITGATE_ENABLE_PATHS
		ProtectedFiles  bool // COMMITGATE_ENABLE_PROTECTED_FILES
		Banned          bool // COMMITGATE_ENABLE_BANNED_FUNCTIONS
		FormatStrings   bool // COMMITGATE_ENABLE_FORMAT_STRINGS
		Analysis        bool // COMMITGATE_ENABLE_ANALYSIS
	}

	// Per-stage timeouts (in seconds)
	StageTimeouts struct {
		Style         int // COMMITGATE_STYLE_TIMEOUT (default: 60)
		ShellSyntax   int // COMMITGATE_SHELL_SYNTAX_TIMEOUT (default: 15)
		FormatStrings int // COMMITGATE_FORMAT_STRINGS_TIMEOUT (default: 120)
		Analysis      int // COMMITGATE_ANALYSIS_TIMEOUT (default: 300)
	}

	// Tool overrides
	Tools struct {
		CC          string // COMMITGATE_CC (default: cc)
		ClangFormat string // COMMITGATE_CLANG_FORMAT (default: clang-format)
		Cppcheck    string // COMMITGATE_CPPCHECK (default: cppcheck)
		Aspell      string // COMMITGATE_ASPELL (default: aspell)
	}

	// Repository-relative resource paths
	Paths struct {
		Dictionary   string   // COMMITGATE_DICTIONARY (default: scripts/aspell-pvt.dict)
		Manifest     string   // COMMITGATE_MANIFEST (default: scripts/checksums)
		StyleFile    string   // COMMITGATE_STYLE_FILE (default: .clang-format)
		Suppressions string   // COMMITGATE_SUPPRESSIONS (optional catalog override)
		Scripts      []string // COMMITGATE_SCRIPTS (allow-list for the shell syntax stage)
		HookDir      string   // COMMITGATE_HOOK_DIR (default: .git/hooks)
	}

	// UI settings
	UI struct {
		ColorOutput bool // COMMITGATE_COLOR_OUTPUT (default: true)
	}
}

// Load reads configuration from the environment, seeded from the
// optional .commitgate.env file at the repository root. A missing env
// file is not an error; the defaults below describe the canonical
// project layout.
func Load(repoRoot string) (*Config, error) {
	envPath := filepath.Join(repoRoot, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	cfg := &Config{RepoRoot: repoRoot}

	// Core settings
	cfg.Enabled = getBoolEnv("COMMITGATE_ENABLED", true)
	cfg.Timeout = getIntEnv("COMMITGATE_TIMEOUT_SECONDS", 600)
	cfg.Verbose = getBoolEnv("COMMITGATE_VERBOSE", false)

	// Stage toggles
	cfg.Checks.ConflictMarkers = getBoolEnv("COMMITGATE_ENABLE_CONFLICT_MARKERS", true)
	cfg.Checks.Style = getBoolEnv("COMMITGATE_ENABLE_STYLE", true)
	cfg.Checks.ShellSyntax = getBoolEnv("COMMITGATE_ENABLE_SHELL_SYNTAX", true)
	cfg.Checks.Dictionary = getBoolEnv("COMMITGATE_ENABLE_DICTIONARY", true)
	cfg.Checks.BinaryContent = getBoolEnv("COMMITGATE_ENABLE_BINARY_CONTENT", true)
	cfg.Checks.Paths = getBoolEnv("COMMITGATE_ENABLE_PATHS", true)
	cfg.Checks.ProtectedFiles = getBoolEnv("COMMITGATE_ENABLE_PROTECTED_FILES", true)
	cfg.Checks.Banned = getBoolEnv("COMMITGATE_ENABLE_BANNED_FUNCTIONS", true)
	cfg.Checks.FormatStrings = getBoolEnv("COMMITGATE_ENABLE_FORMAT_STRINGS", true)
	cfg.Checks.Analysis = getBoolEnv("COMMITGATE_ENABLE_ANALYSIS", true)

	// Stage timeouts
	cfg.StageTimeouts.Style = getIntEnv("COMMITGATE_STYLE_TIMEOUT", 60)
	cfg.StageTimeouts.ShellSyntax = getIntEnv("COMMITGATE_SHELL_SYNTAX_TIMEOUT", 15)
	cfg.StageTimeouts.FormatStrings = getIntEnv("COMMITGATE_FORMAT_STRINGS_TIMEOUT", 120)
	cfg.StageTimeouts.Analysis = getIntEnv("COMMITGATE_ANALYSIS_TIMEOUT", 300)

	// Tool overrides
	cfg.Tools.CC = getStringEnv("COMMITGATE_CC", "cc")
	cfg.Tools.ClangFormat = getStringEnv("COMMITGATE_CLANG_FORMAT", "clang-format")
	cfg.Tools.Cppcheck = getStringEnv("COMMITGATE_CPPCHECK", "cppcheck")
	cfg.Tools.Aspell = getStringEnv("COMMITGATE_ASPELL", "aspell")

	// Resource paths
	cfg.Paths.Dictionary = getStringEnv("COMMITGATE_DICTIONARY", "scripts/aspell-pvt.dict")
	cfg.Paths.Manifest = getStringEnv("COMMITGATE_MANIFEST", "scripts/checksums")
	cfg.Paths.StyleFile = getStringEnv("COMMITGATE_STYLE_FILE", ".clang-format")
	cfg.Paths.Suppressions = getStringEnv("COMMITGATE_SUPPRESSIONS", "")
	cfg.Paths.HookDir = getStringEnv("COMMITGATE_HOOK_DIR", ".git/hooks")

	scripts := getStringEnv("COMMITGATE_SCRIPTS", "scripts/pre-commit.hook,scripts/commit-msg.hook,scripts/driver.sh")
	for _, s := range strings.Split(scripts, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Paths.Scripts = append(cfg.Paths.Scripts, s)
		}
	}

	// UI settings
	cfg.UI.ColorOutput = getBoolEnv("COMMITGATE_COLOR_OUTPUT", true)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("COMMITGATE_TIMEOUT_SECONDS must be positive, got %d", c.Timeout)
	}
	for name, v := range map[string]int{
		"COMMITGATE_STYLE_TIMEOUT":          c.StageTimeouts.Style,
		"COMMITGATE_SHELL_SYNTAX_TIMEOUT":   c.StageTimeouts.ShellSyntax,
		"COMMITGATE_FORMAT_STRINGS_TIMEOUT": c.StageTimeouts.FormatStrings,
		"COMMITGATE_ANALYSIS_TIMEOUT":       c.StageTimeouts.Analysis,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.Paths.Dictionary == "" {
		return fmt.Errorf("COMMITGATE_DICTIONARY must not be empty")
	}
	if c.Paths.Manifest == "" {
		return fmt.Errorf("COMMITGATE_MANIFEST must not be empty")
	}
	return nil
}

// DictionaryPath returns the absolute path of the personal dictionary
func (c *Config) DictionaryPath() string {
	return filepath.Join(c.RepoRoot, c.Paths.Dictionary)
}

// ManifestPath returns the absolute path of the protected-file checksum manifest
func (c *Config) ManifestPath() string {
	return filepath.Join(c.RepoRoot, c.Paths.Manifest)
}

// getBoolEnv reads a boolean environment variable with a default
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getIntEnv reads an integer environment variable with a default
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getStringEnv reads a string environment variable with a default
func getStringEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
