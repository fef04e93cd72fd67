package config

import (
	"fmt"
	"os"
	"strings"

	httpapi "github.com/grocerly/reports-manager/internal/api/http"
	"github.com/grocerly/reports-manager/internal/apisrv/auth"
	"github.com/grocerly/reports-manager/internal/report"
	"github.com/grocerly/reports-manager/internal/store"
	"github.com/grocerly/reports-manager/log"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	DB     store.Config   `mapstructure:"mysql"`
	Logger log.Config     `mapstructure:"logger"`
	HTTP   httpapi.Config `mapstructure:"http"`
	Auth   auth.Config    `mapstructure:"auth"`
	Report report.Config  `mapstructure:"report"`
}

// LoadConfig loads the configuration from a file and/or environment
// variables. Environment variables take precedence over config file values;
// nested keys use double underscore, e.g. MYSQL__DSN for mysql.dsn.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	viper.SetDefault("http.port", "8081")
	viper.SetDefault("http.address", "")
	viper.SetDefault("mysql.max_open_connections", 10)
	viper.SetDefault("mysql.max_idle_connections", 5)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/reports-manager")
		viper.AddConfigPath("/etc/reports-manager")
		// Config file is optional, env vars can carry everything.
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	return &config, nil
}
