package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from an optional
// config file and HOMELEDGER_* environment variables
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Access   AccessConfig   `mapstructure:"access"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// StorageConfig selects the store backend: "postgres" (authoritative)
// or "memory" (demo and tests)
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString renders the lib/pq connection string
func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// AccessConfig holds the mutation allow-list: comma-separated verified
// e-mail addresses, compared lower-cased
type AccessConfig struct {
	AllowedEmails string `mapstructure:"allowed_emails"`
}

// Emails splits the allow-list into individual addresses
func (c AccessConfig) Emails() []string {
	var emails []string
	for _, email := range strings.Split(c.AllowedEmails, ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

// AMQPConfig configures the change-event publisher. An empty URL
// disables publishing.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// Load reads configuration from homeledger.yaml (working directory or
// /etc/homeledger) and the environment, with sane local defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("storage.backend", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "homeledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("access.allowed_emails", "")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "homeledger")

	v.SetConfigName("homeledger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/homeledger")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("HOMELEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
