package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env         string       `yaml:"env" env:"ENV" env-default:"local"`
	Storage     string       `yaml:"storage" env:"STORAGE" env-default:"postgres"`
	StoragePath string       `yaml:"storage_path" env:"STORAGE_PATH"`
	HTTP        HTTPConfig   `yaml:"http"`
	Auth        AuthConfig   `yaml:"auth"`
	Ledger      LedgerConfig `yaml:"ledger"`
	Audit       AuditConfig  `yaml:"audit"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port" env:"HTTP_PORT" env-default:"8082"`
	Timeout        time.Duration `yaml:"timeout" env-default:"5s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

type AuthConfig struct {
	AppSecret string `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
}

type LedgerConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" env-default:"5"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env-default:"5ms"`
}

type AuditConfig struct {
	Workers int `yaml:"workers" env-default:"4"`
}

// MustLoad reads the config from the --config flag or CONFIG_PATH.
func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		log.Fatal("config path is empty")
	}

	return Load(path)
}

func Load(path string) *Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", path)
	}

	cfg, err := Read(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func Read(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
