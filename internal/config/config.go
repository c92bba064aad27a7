package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// GeneratorHTTP talks to a generation service over JSON/HTTP
	GeneratorHTTP = "http"
	// GeneratorGenAI calls Gemini through the genai SDK
	GeneratorGenAI = "genai"
	// GeneratorNone disables generation; AI calls fail with a service error
	GeneratorNone = "none"

	configFileName = "config.yaml"
)

// Config holds forge settings. Values come from defaults, then
// <DataDir>/config.yaml, then environment variables.
type Config struct {
	DataDir      string        `yaml:"-"`
	Port         int           `yaml:"port"`
	Generator    string        `yaml:"generator"`
	GeneratorURL string        `yaml:"generator_url,omitempty"`
	GenAIModel   string        `yaml:"genai_model,omitempty"`
	APIKey       string        `yaml:"-"`
	AITimeout    time.Duration `yaml:"ai_timeout"`
	Debug        bool          `yaml:"debug"`
}

// Default returns the built-in configuration rooted at dataDir
func Default(dataDir string) *Config {
	return &Config{
		DataDir:      dataDir,
		Port:         8080,
		Generator:    GeneratorHTTP,
		GeneratorURL: "http://localhost:9002/api/ai",
		GenAIModel:   "gemini-2.0-flash",
		AITimeout:    60 * time.Second,
	}
}

// DefaultDataDir resolves the data directory from FORGE_DIR or the home
// directory
func DefaultDataDir() (string, error) {
	if dir := os.Getenv("FORGE_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".powershell-forge"), nil
}

// Load reads the configuration for dataDir. An empty dataDir uses
// DefaultDataDir. A missing config file is not an error.
func Load(dataDir string) (*Config, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	cfg := Default(dataDir)

	data, err := os.ReadFile(cfg.Path())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", cfg.Path(), err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location
func (c *Config) Path() string {
	return filepath.Join(c.DataDir, configFileName)
}

// Save writes the configuration as YAML. The API key is never written.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(c.Path(), data, 0o600)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Generator {
	case GeneratorHTTP:
		if strings.TrimSpace(c.GeneratorURL) == "" {
			return fmt.Errorf("generator_url is required for the http generator")
		}
	case GeneratorGenAI, GeneratorNone:
	default:
		return fmt.Errorf("unknown generator %q (expected http, genai or none)", c.Generator)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("ai_timeout must be positive")
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FORGE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FORGE_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("FORGE_GENERATOR"); v != "" {
		c.Generator = strings.ToLower(v)
	}
	if v := os.Getenv("FORGE_GENERATOR_URL"); v != "" {
		c.GeneratorURL = v
	}
	if v := os.Getenv("FORGE_GENAI_MODEL"); v != "" {
		c.GenAIModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("FORGE_AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FORGE_AI_TIMEOUT: %w", err)
		}
		c.AITimeout = d
	}
	if v := os.Getenv("FORGE_DEBUG"); v != "" {
		c.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	return nil
}
