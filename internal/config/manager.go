package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configuration from the optional file at configPath, with
// RIVALSCAN_* environment variables overriding file values and built-in
// defaults. An empty path means env and defaults only.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return &config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix("RIVALSCAN")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	m.viper.SetDefault("server.host", "0.0.0.0")
	m.viper.SetDefault("server.port", 8080)

	m.viper.SetDefault("serper.endpoint", "https://google.serper.dev/search")
	m.viper.SetDefault("serper.api_key", "")
	m.viper.SetDefault("serper.region", "us")
	m.viper.SetDefault("serper.result_count", 20)
	m.viper.SetDefault("serper.timeout_ms", 30000)
	m.viper.SetDefault("serper.max_retries", 2)
	m.viper.SetDefault("serper.retry_delay_ms", 500)
	m.viper.SetDefault("serper.cache_ttl_ms", 300000)
	m.viper.SetDefault("serper.cache_size", 256)

	m.viper.SetDefault("analysis.keyword_limit", 10)
	m.viper.SetDefault("analysis.position_window", 10)
	m.viper.SetDefault("analysis.min_shared_keywords", 2)
	m.viper.SetDefault("analysis.min_overlap_percent", 20)
	m.viper.SetDefault("analysis.max_competitors", 12)
	m.viper.SetDefault("analysis.request_interval_ms", 500)
	m.viper.SetDefault("analysis.request_timeout_ms", 60000)

	m.viper.SetDefault("logger.level", "info")
	m.viper.SetDefault("logger.format", "json")
	m.viper.SetDefault("logger.output", "stdout")
	m.viper.SetDefault("logger.time_format", "")
}

func (m *manager) validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Serper.Endpoint == "" {
		return fmt.Errorf("serper.endpoint cannot be empty")
	}
	if config.Serper.ResultCount <= 0 {
		return fmt.Errorf("serper.result_count must be positive")
	}
	if config.Analysis.KeywordLimit <= 0 {
		return fmt.Errorf("analysis.keyword_limit must be positive")
	}
	if config.Analysis.PositionWindow <= 0 {
		return fmt.Errorf("analysis.position_window must be positive")
	}
	if config.Analysis.MaxCompetitors <= 0 {
		return fmt.Errorf("analysis.max_competitors must be positive")
	}
	if config.Analysis.RequestIntervalMs < 0 {
		return fmt.Errorf("analysis.request_interval_ms cannot be negative")
	}
	return nil
}
