// Package config loads the server settings.
//
// Values are layered, later layers winning:
//   - built-in defaults (public Pipefy endpoints, info logging);
//   - an optional YAML file passed with --config;
//   - an optional .env file, which never overrides variables already set
//     in the process environment;
//   - PIPEFY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default endpoints of the public Pipefy API.
const (
	DefaultGraphQLURL = "https://api.pipefy.com/graphql"
	DefaultOAuthURL   = "https://app.pipefy.com/oauth/token"
)

// Environment variables read by Load.
const (
	EnvGraphQLURL  = "PIPEFY_GRAPHQL_URL"
	EnvOAuthURL    = "PIPEFY_OAUTH_URL"
	EnvOAuthClient = "PIPEFY_OAUTH_CLIENT"
	EnvOAuthSecret = "PIPEFY_OAUTH_SECRET"
	EnvSchemaFile  = "PIPEFY_SCHEMA_FILE"
	EnvLogLevel    = "PIPEFY_LOG_LEVEL"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Settings is the complete server configuration.
type Settings struct {
	Pipefy PipefySettings `yaml:"pipefy"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// PipefySettings holds the API endpoints and OAuth2 client credentials.
type PipefySettings struct {
	GraphQLURL  string `yaml:"graphql_url"`
	OAuthURL    string `yaml:"oauth_url"`
	OAuthClient string `yaml:"oauth_client"`
	OAuthSecret string `yaml:"oauth_secret"`

	// SchemaFile optionally points at the API schema in SDL. When set,
	// every document is validated locally before it is sent.
	SchemaFile string `yaml:"schema_file"`
}

// Default returns the settings used before any layer is applied.
func Default() *Settings {
	return &Settings{
		Pipefy: PipefySettings{
			GraphQLURL: DefaultGraphQLURL,
			OAuthURL:   DefaultOAuthURL,
		},
		LogLevel: "info",
	}
}

// Options selects the files Load reads. Empty paths are skipped.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load builds the settings from defaults, files and the environment. A
// missing env file is not an error; a missing config file is.
func Load(opts Options) (*Settings, error) {
	s := Default()

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	}

	s.applyEnv()
	return s, nil
}

func (s *Settings) applyEnv() {
	override(&s.Pipefy.GraphQLURL, EnvGraphQLURL)
	override(&s.Pipefy.OAuthURL, EnvOAuthURL)
	override(&s.Pipefy.OAuthClient, EnvOAuthClient)
	override(&s.Pipefy.OAuthSecret, EnvOAuthSecret)
	override(&s.Pipefy.SchemaFile, EnvSchemaFile)
	override(&s.LogLevel, EnvLogLevel)
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// Validate reports every missing or malformed value at once.
func (s *Settings) Validate() error {
	var problems []string
	required := []struct {
		value, env string
	}{
		{s.Pipefy.GraphQLURL, EnvGraphQLURL},
		{s.Pipefy.OAuthURL, EnvOAuthURL},
		{s.Pipefy.OAuthClient, EnvOAuthClient},
		{s.Pipefy.OAuthSecret, EnvOAuthSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, r.env+" is not set")
		}
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Schema returns the contents of SchemaFile, or "" when none is set.
func (s *Settings) Schema() (string, error) {
	if s.Pipefy.SchemaFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(s.Pipefy.SchemaFile)
	if err != nil {
		return "", fmt.Errorf("reading schema file: %w", err)
	}
	return string(data), nil
}

// ParseLevel maps a level name to its slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
