// Package config loads and validates sitescout configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Repo      RepoConfig      `mapstructure:"repo"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// RepoConfig identifies the Gitea repository whose tree is walked.
type RepoConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	Owner              string `mapstructure:"owner"`
	Name               string `mapstructure:"name"`
	Ref                string `mapstructure:"ref"`
	Token              string `mapstructure:"token"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// DiscoveryConfig governs the recursive walk. Zero values keep the walk
// unbounded and unthrottled.
type DiscoveryConfig struct {
	MaxConcurrency    int     `mapstructure:"max_concurrency"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	RateBurst         int     `mapstructure:"rate_burst"`
}

// PubSubConfig holds metadata for publish-subscribe notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig toggles zap development features and optional file output.
type LoggingConfig struct {
	Development    bool   `mapstructure:"development"`
	File           string `mapstructure:"file"`
	FileMaxSizeMB  int    `mapstructure:"file_max_size_mb"`
	FileMaxBackups int    `mapstructure:"file_max_backups"`
	FileMaxAgeDays int    `mapstructure:"file_max_age_days"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("repo.ref", "main")
	v.SetDefault("repo.insecure_skip_verify", false)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "sitescout/0.1")
	v.SetDefault("discovery.max_concurrency", 0)
	v.SetDefault("discovery.requests_per_second", 0)
	v.SetDefault("discovery.rate_burst", 1)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Repo.BaseURL == "" {
		return fmt.Errorf("repo.base_url is required")
	}
	if u, err := url.Parse(c.Repo.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("repo.base_url must be an absolute URL")
	}
	if c.Repo.Owner == "" {
		return fmt.Errorf("repo.owner is required")
	}
	if c.Repo.Name == "" {
		return fmt.Errorf("repo.name is required")
	}
	if c.Repo.Ref == "" {
		return fmt.Errorf("repo.ref must not be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Discovery.MaxConcurrency < 0 {
		return fmt.Errorf("discovery.max_concurrency must be >= 0")
	}
	if c.Discovery.RequestsPerSecond < 0 {
		return fmt.Errorf("discovery.requests_per_second must be >= 0")
	}
	if c.Discovery.RequestsPerSecond > 0 && c.Discovery.RateBurst <= 0 {
		return fmt.Errorf("discovery.rate_burst must be > 0 when requests_per_second is set")
	}
	if (c.PubSub.ProjectID == "") != (c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set together")
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// PubSubEnabled reports whether record forwarding to Pub/Sub is configured.
func (c Config) PubSubEnabled() bool {
	return c.PubSub.ProjectID != "" && c.PubSub.TopicName != ""
}
