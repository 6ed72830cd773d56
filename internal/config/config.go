package config

import (
	"os"
	"runtime"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"warn"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	Judge0URL            string        `env:"JUDGE0_API_URL" env-default:"https://judge0-ce.p.rapidapi.com"`
	Judge0APIKey         string        `env:"JUDGE0_API_KEY"`
	Judge0APIHost        string        `env:"JUDGE0_API_HOST"`
	Judge0RequestTimeout time.Duration `env:"JUDGE0_REQUEST_TIMEOUT" env-default:"10s"`
	Judge0PollInterval   time.Duration `env:"JUDGE0_POLL_INTERVAL" env-default:"1s"`
	Judge0PollAttempts   int           `env:"JUDGE0_POLL_ATTEMPTS" env-default:"10"`

	MinIOHost     string `env:"MINIO_HOST" env-default:"127.0.0.1:9000"`
	MinIOLogin    string `env:"MINIO_LOGIN" env-required:"true"`
	MinIOPassword string `env:"MINIO_PASSWORD" env-required:"true"`
	MinIOBucket   string `env:"MINIO_BUCKET" env-default:"tasks"`
	MinIOSecure   bool   `env:"MINIO_SECURE" env-default:"false"`

	RabbitMQHost     string `env:"RABBIT_HOST" env-default:"127.0.0.1"`
	RabbitMQPort     int    `env:"RABBIT_PORT" env-default:"5672"`
	RabbitMQUser     string `env:"RABBIT_USER" env-required:"true"`
	RabbitMQPassword string `env:"RABBIT_PASSWORD" env-required:"true"`
	WorkersCount     int    `env:"WORKERS_COUNT" env-default:"0"`

	RedisAddr     string        `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	StatusTTL     time.Duration `env:"STATUS_TTL" env-default:"24h"`
}

// NewConfig reads .env when it exists and the process environment otherwise.
func NewConfig() (*Config, error) {
	return newConfig(".env")
}

func newConfig(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, err
	}
	if cfg.WorkersCount <= 0 {
		cfg.WorkersCount = runtime.NumCPU()
	}

	return cfg, nil
}
