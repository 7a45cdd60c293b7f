package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/storefront/catalog/internal/logger"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		AccessSecret     string `yaml:"access_secret"`
		RefreshSecret    string `yaml:"refresh_secret"`
		AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
		RefreshTTLHours  int    `yaml:"refresh_ttl_hours"`
	} `yaml:"jwt"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3, cloudflare_r2
		BasePath  string `yaml:"base_path"`  // for local storage
		BaseURL   string `yaml:"base_url"`   // public URL base
		Bucket    string `yaml:"bucket"`     // for S3/R2
		Region    string `yaml:"region"`     // for S3
		AccessKey string `yaml:"access_key"` // for S3/R2
		SecretKey string `yaml:"secret_key"` // for S3/R2
		Endpoint  string `yaml:"endpoint"`   // for R2 or custom S3
	} `yaml:"storage"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Mail struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"mail"`

	Upload struct {
		MaxSize      int64 `yaml:"max_size"`      // per-file limit in bytes
		MaxWidth     int   `yaml:"max_width"`     // images resized down to this
		ImageQuality int   `yaml:"image_quality"` // initial JPEG quality (1-100)
	} `yaml:"upload"`
}

var AppConfig *Config

// LoadConfig populates AppConfig. When DATABASE_URL is set in the
// environment the yaml file is skipped entirely and everything comes from
// env vars; otherwise config/config.yaml (or CONFIG_PATH) is parsed. A .env
// file is honored in either mode.
func LoadConfig() {
	_ = godotenv.Load()

	var cfg Config

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
		if cfg.Server.Port == 0 {
			cfg.Server.Port = 8080
		}
		cfg.JWT.AccessSecret = os.Getenv("JWT_SECRET")
		cfg.JWT.RefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
		cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

		cfg.Storage.Type = os.Getenv("STORAGE_TYPE")
		if cfg.Storage.Type == "" {
			cfg.Storage.Type = "local"
		}
		cfg.Storage.BasePath = "./uploads"
		cfg.Storage.BaseURL = os.Getenv("STORAGE_BASE_URL")
		cfg.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
		cfg.Storage.Region = os.Getenv("STORAGE_REGION")
		cfg.Storage.AccessKey = os.Getenv("STORAGE_ACCESS_KEY")
		cfg.Storage.SecretKey = os.Getenv("STORAGE_SECRET_KEY")
		cfg.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	if err != nil {
		logger.Fatal("Failed to open config file", "path", configPath, "error", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		logger.Fatal("Failed to parse config file", "path", configPath, "error", err)
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 15
	}
	if cfg.JWT.RefreshTTLHours == 0 {
		cfg.JWT.RefreshTTLHours = 7 * 24
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 << 20 // 10MB
	}
	if cfg.Upload.MaxWidth == 0 {
		cfg.Upload.MaxWidth = 640
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 80
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
