// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration. Values come from an optional config
// file, then environment variables, then defaults.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`

	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	AIModelLite     string        `mapstructure:"ai_model_lite"`
	AIModelStandard string        `mapstructure:"ai_model_standard"`
	AITimeout       time.Duration `mapstructure:"ai_timeout"`

	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`

	LogJSON  bool `mapstructure:"log_json"`
	LogDebug bool `mapstructure:"log_debug"`
}

// Default values applied before the config file and environment are read.
const (
	DefaultPort               = 8080
	DefaultDatabaseURL        = "memory://"
	DefaultAITimeout          = 30 * time.Second
	DefaultJWTExpirationHours = 24
	DefaultBcryptCost         = 12
)

var keys = []string{
	"port", "database_url", "seed_on_start",
	"gemini_api_key", "ai_model_lite", "ai_model_standard", "ai_timeout",
	"jwt_secret", "jwt_expiration_hours", "bcrypt_cost", "password_pepper",
	"log_json", "log_debug",
}

// SetDefaults registers defaults and binds every key to its upper-case environment variable.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("seed_on_start", true)
	v.SetDefault("ai_timeout", DefaultAITimeout)
	v.SetDefault("jwt_expiration_hours", DefaultJWTExpirationHours)
	v.SetDefault("bcrypt_cost", DefaultBcryptCost)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
}

// Load resolves configuration from v. When path is non-empty the file is read first
// and a read failure is returned.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has usable values. Secrets required only by
// the HTTP server are checked by ValidateServer.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("config error: 'ai_timeout' must be positive")
	}
	return nil
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := c.JWT(); err != nil {
		return err
	}
	if _, err := c.Password(); err != nil {
		return err
	}
	return nil
}

// JWT returns the validated token configuration.
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.JWTSecret, c.JWTExpirationHours)
}

// Password returns the validated password hashing configuration.
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.BcryptCost, c.PasswordPepper)
}
