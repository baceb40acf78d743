// internal/config/config.go
// Loader konfigurasi dari environment variables (+ .env dan overlay YAML opsional)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName   string `yaml:"app_name"`
	AppEnv    string `yaml:"app_env"`
	AppPort   string `yaml:"app_port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Base URL backend REST (dua dashboard, dua port)
	Backend struct {
		DecideurURL  string        `yaml:"decideur_url"`
		OperateurURL string        `yaml:"operateur_url"`
		Timeout      time.Duration `yaml:"timeout"`
		RPS          int           `yaml:"rps"`
		Burst        int           `yaml:"burst"`
	} `yaml:"backend"`

	MySQL struct {
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		DB       string `yaml:"db"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		MaxOpen  int    `yaml:"max_open"`
		MaxIdle  int    `yaml:"max_idle"`
	} `yaml:"mysql"`

	LLM struct {
		APIKey  string `yaml:"api_key"`
		APIBase string `yaml:"api_base"`
		Model   string `yaml:"model"`
	} `yaml:"llm"`

	Auth AuthConfig `yaml:"auth"`

	CORSOrigins []string `yaml:"cors_origins"`

	Alerts struct {
		File           string        `yaml:"file"`
		WorkerInterval time.Duration `yaml:"worker_interval"`
		AnomalyZ       float64       `yaml:"anomaly_z"`
	} `yaml:"alerts"`
}

type AuthConfig struct {
	AdminUser      string `yaml:"admin_user"`
	AdminPassHash  string `yaml:"admin_pass_hash"`
	AdminJWTSecret string `yaml:"admin_jwt_secret"`
	// secret HMAC token backend; kosong = klaim dibaca tanpa verifikasi
	BackendJWTSecret string `yaml:"backend_jwt_secret"`
}

// Load membaca .env (jika ada), environment, lalu overlay CONFIG_FILE (YAML).
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{}
	c.AppName = getEnv("APP_NAME", "drilling-dashboard")
	c.AppEnv = getEnv("APP_ENV", "development")
	c.AppPort = getEnv("APP_PORT", "8080")
	c.LogLevel = getEnv("LOG_LEVEL", "info")
	c.LogFormat = getEnv("LOG_FORMAT", "json")

	c.Backend.DecideurURL = getEnv("DECIDEUR_BACKEND_URL", "http://localhost:8098")
	c.Backend.OperateurURL = getEnv("OPERATEUR_BACKEND_URL", "http://localhost:8099")
	c.Backend.Timeout = getEnvDuration("BACKEND_TIMEOUT", 8*time.Second)
	c.Backend.RPS = getEnvInt("BACKEND_RPS", 20)
	c.Backend.Burst = getEnvInt("BACKEND_BURST", 10)

	c.MySQL.DSN = getEnv("DB_DSN", "")
	c.MySQL.Host = getEnv("MYSQL_HOST", "localhost")
	c.MySQL.Port = getEnv("MYSQL_PORT", "3306")
	c.MySQL.DB = getEnv("MYSQL_DB", "drilling")
	c.MySQL.User = getEnv("MYSQL_USER", "root")
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", "")
	c.MySQL.MaxOpen = getEnvInt("MYSQL_MAX_OPEN_CONNS", 10)
	c.MySQL.MaxIdle = getEnvInt("MYSQL_MAX_IDLE_CONNS", 5)

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", "")
	c.LLM.APIBase = getEnv("OPENAI_BASE_URL", "")
	c.LLM.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")

	c.Auth.AdminUser = getEnv("ADMIN_USER", "")
	c.Auth.AdminPassHash = getEnv("ADMIN_PASS_HASH", "")
	c.Auth.AdminJWTSecret = getEnv("ADMIN_JWT_SECRET", "")
	c.Auth.BackendJWTSecret = getEnv("JWT_SECRET", "")

	c.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001"))

	c.Alerts.File = getEnv("ALERTS_FILE", "")
	c.Alerts.WorkerInterval = getEnvDuration("WORKER_INTERVAL", 5*time.Minute)
	c.Alerts.AnomalyZ = getEnvFloat("ANOMALY_Z", 2.0)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.overlayFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// overlayFile menimpa field yang diisi di file YAML; field kosong dibiarkan.
func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// MySQLDSN mengembalikan DB_DSN bila ada, atau dirakit dari MYSQL_*.
// Kosong berarti fitur DB dimatikan.
func (c *Config) MySQLDSN() string {
	if c.MySQL.DSN != "" {
		return c.MySQL.DSN
	}
	if c.MySQL.Password == "" && os.Getenv("MYSQL_HOST") == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.MySQL.User, c.MySQL.Password, c.MySQL.Host, c.MySQL.Port, c.MySQL.DB)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		_, err := fmt.Sscanf(v, "%d", &i)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
