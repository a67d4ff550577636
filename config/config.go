package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	JWT      JWT
	Log      Log
	Storage  Storage
	Image    Image
}

type Server struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWT struct {
	Secret string
	Expiry time.Duration
}

type Log struct {
	Level  string
	Pretty bool
}

type Storage struct {
	Driver    string // "fs" or "oss"
	Dir       string
	PublicURL string
	OSS       OSS
}

type OSS struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicBaseURL   string
}

type Image struct {
	MaxWidth  int
	MaxHeight int
	MaxBytes  int64
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file, falling back to environment")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.CORSOrigins = splitList(viper.GetString("CORS_ORIGINS"))

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.URL = normalizeDatabaseURL(viper.GetString("DATABASE_URL"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.Expiry = viper.GetDuration("JWT_EXPIRY")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	config.Storage.Driver = viper.GetString("STORAGE_DRIVER")
	config.Storage.Dir = viper.GetString("STORAGE_DIR")
	config.Storage.PublicURL = viper.GetString("STORAGE_PUBLIC_URL")
	config.Storage.OSS.Endpoint = viper.GetString("OSS_ENDPOINT")
	config.Storage.OSS.AccessKeyID = viper.GetString("OSS_ACCESS_KEY_ID")
	config.Storage.OSS.AccessKeySecret = viper.GetString("OSS_ACCESS_KEY_SECRET")
	config.Storage.OSS.Bucket = viper.GetString("OSS_BUCKET")
	config.Storage.OSS.PublicBaseURL = viper.GetString("OSS_PUBLIC_BASE_URL")

	config.Image.MaxWidth = viper.GetInt("IMAGE_MAX_WIDTH")
	config.Image.MaxHeight = viper.GetInt("IMAGE_MAX_HEIGHT")
	config.Image.MaxBytes = viper.GetInt64("IMAGE_MAX_BYTES")

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("storage_driver", config.Storage.Driver).
		Dur("jwt_expiry", config.JWT.Expiry).
		Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("JWT_SECRET", "fallback-secret-key")
	viper.SetDefault("JWT_EXPIRY", time.Hour)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", true)
	viper.SetDefault("STORAGE_DRIVER", "fs")
	viper.SetDefault("STORAGE_DIR", "./uploads")
	viper.SetDefault("STORAGE_PUBLIC_URL", "/uploads")
	viper.SetDefault("IMAGE_MAX_WIDTH", 1600)
	viper.SetDefault("IMAGE_MAX_HEIGHT", 1600)
	viper.SetDefault("IMAGE_MAX_BYTES", 5*1024*1024)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "fs":
	case "oss":
		if c.Storage.OSS.Endpoint == "" || c.Storage.OSS.AccessKeyID == "" || c.Storage.OSS.AccessKeySecret == "" || c.Storage.OSS.Bucket == "" {
			return fmt.Errorf("STORAGE_DRIVER=oss requires OSS_ENDPOINT, OSS_ACCESS_KEY_ID, OSS_ACCESS_KEY_SECRET and OSS_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	return nil
}

// DSN builds the connection string for the configured driver. DATABASE_URL wins when set.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		if d.Name == "" {
			return "examapp.db"
		}
		return d.Name
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Hosting providers still hand out postgres:// URLs; pgx accepts both but keep one canonical form.
func normalizeDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
