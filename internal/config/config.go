package config

import "time"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Serper   SerperConfig   `mapstructure:"serper"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type SerperConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	Region       string `mapstructure:"region"`
	ResultCount  int    `mapstructure:"result_count"`
	TimeoutMs    int    `mapstructure:"timeout_ms"`
	MaxRetries   int    `mapstructure:"max_retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
	CacheTTLMs   int    `mapstructure:"cache_ttl_ms"`
	CacheSize    int    `mapstructure:"cache_size"`
}

type AnalysisConfig struct {
	KeywordLimit      int `mapstructure:"keyword_limit"`
	PositionWindow    int `mapstructure:"position_window"`
	MinSharedKeywords int `mapstructure:"min_shared_keywords"`
	MinOverlapPercent int `mapstructure:"min_overlap_percent"`
	MaxCompetitors    int `mapstructure:"max_competitors"`
	RequestIntervalMs int `mapstructure:"request_interval_ms"`
	RequestTimeoutMs  int `mapstructure:"request_timeout_ms"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// RequestInterval returns the spacing between SERP calls.
func (a AnalysisConfig) RequestInterval() time.Duration {
	return time.Duration(a.RequestIntervalMs) * time.Millisecond
}

// RequestTimeout returns the overall deadline for one analysis.
func (a AnalysisConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutMs) * time.Millisecond
}

// Timeout returns the per-call provider timeout.
func (s SerperConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// RetryDelay returns the initial backoff between provider retries.
func (s SerperConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMs) * time.Millisecond
}

// CacheTTL returns how long SERP responses may be reused.
func (s SerperConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLMs) * time.Millisecond
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
