package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"QTTT_LOG_LEVEL" env-default:"info"`
	Redis    Redis  `yaml:"redis"`
	Match    Match  `yaml:"match"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"QTTT_REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"QTTT_REDIS_PORT" env-default:"6379"`
	MatchTTL time.Duration `yaml:"match-ttl" env:"QTTT_MATCH_TTL" env-default:"24h"`
}

type Match struct {
	// EarlyFinish ends a match once one side has won a majority of sub-boards.
	EarlyFinish bool `yaml:"early-finish" env:"QTTT_EARLY_FINISH" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the file at path, falling back to environment variables and defaults when path is empty.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
