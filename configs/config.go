package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kkyr/fig"
	"go.uber.org/zap"
)

type DB struct {
	Driver             string `default:"postgres"`
	Host               string
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string
	Database           string `default:"postgres"`
	Path               string `default:"brewery.db"`
	MaxIdleConnections int    `default:"10"`
	MaxOpenConnections int    `default:"10"`
}

type Server struct {
	Port int `default:"8080"`
}

// Photos selects where thumbnail bytes live. StorageType is evaluated once at
// startup, not per record.
type Photos struct {
	StorageType string `default:"database"`
	UploadDir   string `default:"uploads"`
	DownloadDir string `default:"downloads"`
}

type Mail struct {
	Host     string
	Port     int `default:"587"`
	Address  string
	Password string
}

type Auth struct {
	SecretKey    string
	SessionHours int `default:"8"`
}

type Config struct {
	DB     DB
	Server Server
	Photos Photos
	Mail   Mail
	Auth   Auth
}

const envPrefix = "BREWERYFINDER" // env prefix for env vars

var ErrConfiguration = errors.New("configuration error")

func GetConfig(configFileName string, logger *zap.Logger) (*Config, error) {
	config := Config{}
	homeDir, _ := os.UserHomeDir()

	logger.Info("Loading config", zap.String("file", configFileName))

	err := fig.Load(&config, fig.File(configFileName), fig.Dirs(".", homeDir), fig.UseEnv(envPrefix))
	if err != nil {
		if strings.Contains(err.Error(), "file not found") {
			logger.Warn("Could not find config file", zap.String("file", configFileName))

			err = fig.Load(&config, fig.IgnoreFile(), fig.UseEnv(envPrefix))
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if err = validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(config *Config) error {
	switch strings.ToLower(config.DB.Driver) {
	case "postgres":
		if config.DB.Host == "" || config.DB.Password == "" {
			return fmt.Errorf("%w: postgres driver requires DB host and password", ErrConfiguration)
		}
	case "sqlite":
		if config.DB.Path == "" {
			return fmt.Errorf("%w: sqlite driver requires a database path", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrConfiguration, config.DB.Driver)
	}

	switch config.Photos.StorageType {
	case "database", "filesystem":
	default:
		return fmt.Errorf("%w: photo storage type must be database or filesystem, got %q", ErrConfiguration, config.Photos.StorageType)
	}

	return nil
}
