package conf

import (
	"fmt"

	"github.com/memebin/memebin/internal/pkg/database"
	"github.com/memebin/memebin/internal/pkg/logger"
	"github.com/memebin/memebin/internal/pkg/minio"
	"github.com/spf13/viper"
)

// Config is the full service configuration
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	MinIO    minio.Config    `mapstructure:"minio"`
	Log      logger.Config   `mapstructure:"log"`
	Auth     AuthConfig      `mapstructure:"auth"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AuthConfig holds the admin gate settings. An empty AdminAPIKey disables
// the admin endpoints entirely.
type AuthConfig struct {
	AdminAPIKey string `mapstructure:"admin_api_key"`
}

// LoadConfig reads the configuration file at path. Environment variables
// override file values (e.g. DATABASE.PASSWORD).
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := defaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: *database.DefaultConfig(),
		Log:      *logger.DefaultConfig(),
	}
}
