package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Driver   string // "mysql" or "postgres"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	Environment   string
	GinMode       string
	HTTP          HTTPConfig
	DB            DBConfig
	SMTP          SMTPConfig
	SessionSecret string
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	PortalURL     string
	UploadDir     string
}

// Load reads configuration from the environment (PORTAL_ prefix) and an
// optional config.yaml. The JWT and session secrets have no defaults on
// purpose: starting without them is a deployment error, not something to
// paper over with a built-in value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg := &Config{
		Environment: v.GetString("environment"),
		GinMode:     v.GetString("gin_mode"),
		HTTP: HTTPConfig{
			Host: v.GetString("http_host"),
			Port: v.GetInt("http_port"),
		},
		DB: DBConfig{
			Driver:   v.GetString("db_driver"),
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp_host"),
			Port:     v.GetInt("smtp_port"),
			Username: v.GetString("smtp_username"),
			Password: v.GetString("smtp_password"),
			From:     v.GetString("smtp_from"),
		},
		SessionSecret: v.GetString("session_secret"),
		JWTSecret:     v.GetString("jwt_secret"),
		TokenTTL:      v.GetDuration("token_ttl"),
		ResetTokenTTL: v.GetDuration("reset_token_ttl"),
		PortalURL:     v.GetString("portal_url"),
		UploadDir:     v.GetString("upload_dir"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required (set PORTAL_JWT_SECRET)")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session_secret is required (set PORTAL_SESSION_SECRET)")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("gin_mode", "debug")

	v.SetDefault("http_host", "0.0.0.0")
	v.SetDefault("http_port", 8080)

	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "3306")
	v.SetDefault("db_user", "portal")
	v.SetDefault("db_password", "portal")
	v.SetDefault("db_name", "staff_portal")

	v.SetDefault("smtp_host", "localhost")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_from", "no-reply@localhost")

	v.SetDefault("token_ttl", "168h") // 7 days
	v.SetDefault("reset_token_ttl", "1h")

	v.SetDefault("portal_url", "http://localhost:3000")
	v.SetDefault("upload_dir", "./uploads")
}
