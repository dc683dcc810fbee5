package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,          default=8080"`
	Env       string `env:"ENV,           default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	JWTTTL    int    `env:"JWT_TTL_HOURS, default=24"`
	LogLevel  string `env:"LOG_LEVEL,     default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=task_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TokenTTL returns the configured JWT lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTL) * time.Hour
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
