package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/addspin/satexam/crypts"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	AccessLog bool   `mapstructure:"access_log"`
}

func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	// Secret is a base64 AES key (16, 24 or 32 bytes) used to encrypt cookies.
	Secret      string        `mapstructure:"secret"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type AuthConfig struct {
	PasswordScheme string `mapstructure:"password_scheme"`
}

// Scheme returns the parsed password scheme. An empty value means plaintext.
func (a AuthConfig) Scheme() (crypts.PasswordScheme, error) {
	scheme, err := crypts.ParsePasswordScheme(a.PasswordScheme)
	if err != nil {
		return "", fmt.Errorf("auth.password_scheme: %w", err)
	}
	return scheme, nil
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	File   string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8888)
	v.SetDefault("server.access_log", true)
	v.SetDefault("database.path", "sat.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.idle_timeout", time.Hour)
	v.SetDefault("auth.password_scheme", string(crypts.SchemePlaintext))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file", "./logs/satexam.log")
}

// LoadConfig reads config.yaml from the given directories (default "." and
// /etc/satexam), then applies SATEXAM_* environment overrides. A .env file in
// the working directory is loaded into the environment first. A missing
// config file is not an error.
func LoadConfig(paths ...string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "/etc/satexam"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("satexam")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.Auth.Scheme(); err != nil {
		return Config{}, err
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	return cfg, nil
}
