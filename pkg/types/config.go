package types

import "time"

// HTTPConfig holds shared HTTP settings used by the trends client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// TrendsConfig holds settings for the trends provider client.
type TrendsConfig struct {
	HTTPConfig `yaml:",inline"`

	// HL is the interface locale sent to the provider (e.g. "ko-KR"). Its
	// region subtag also selects the geo used to open a session.
	HL string `json:"hl" yaml:"hl"`

	// TZ is the timezone offset in minutes (e.g. 540).
	TZ int `json:"tz" yaml:"tz"`

	// Region is the trending-searches region key (e.g. "south_korea").
	Region string `json:"region" yaml:"region"`

	// BaseURL is the provider root, e.g. "https://trends.google.com/trends".
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// OutputFormat selects the stdout encoding.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error, disabled.
	Level string `json:"level" yaml:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format"`

	// Output is "stderr" or a file path.
	Output string `json:"output" yaml:"output"`
}

// Config groups everything the CLI reads from flags, env, and config file.
type Config struct {
	Trends TrendsConfig `json:"trends" yaml:"trends"`
	Output OutputFormat `json:"output" yaml:"output"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
