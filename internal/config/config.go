// Package config предоставляет структуры и функции для загрузки конфигурации сервиса.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	StorageDir string `yaml:"storage_dir" env-default:"./data"`
	HTTPServer `yaml:"http_server"`
	JWTToken   `yaml:"jwttoken"`
	Auth       `yaml:"auth"`
	Webhook    `yaml:"webhook"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Auth структура для настройки контроллера сессии и админ-доступа.
type Auth struct {
	// LoginDelay — фиксированная задержка входа и регистрации,
	// имитирующая сетевой вызов.
	LoginDelay time.Duration `yaml:"login_delay" env-default:"1s"`
	AdminKey   string        `yaml:"admin_key"`
}

// Webhook структура для настройки внешнего приёмника событий.
// Пустой url отключает отправку.
type Webhook struct {
	URL            string        `yaml:"url"`
	TimeoutWebhook time.Duration `yaml:"timeout" env-default:"10s"`
}

// Load читает конфигурацию из файла по указанному пути.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
