package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName = "stempel"

	keyServerURL = "server_url"
	keyLoginURL  = "login_url"
	keyTokenTTL  = "token_ttl"
	keyCacheTTL  = "cache_ttl"
	keyDataDir   = "data_dir"
	keyDebug     = "debug"
)

// Config is the resolved client configuration.
type Config struct {
	ServerURL string
	LoginURL  string
	TokenTTL  time.Duration
	CacheTTL  time.Duration
	DataDir   string
	Debug     bool

	// File is the config file that was read or created.
	File string
}

func (c Config) TokenPath() string { return filepath.Join(c.DataDir, "token.json") }
func (c Config) LogPath() string   { return filepath.Join(c.DataDir, "debug.log") }

// DefaultDir returns ~/.config/stempel (or the platform equivalent).
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(cfg, appName), nil
}

// Load reads .env from the working directory, then the yaml config file in
// dir, creating it with defaults when missing. STEMPEL_* environment
// variables override both.
func Load(dir string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	file := filepath.Join(dir, appName+".yml")
	v.SetConfigFile(file)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyServerURL, "http://localhost:8080")
	v.SetDefault(keyLoginURL, "")
	v.SetDefault(keyTokenTTL, "10m")
	v.SetDefault(keyCacheTTL, "30s")
	v.SetDefault(keyDataDir, dir)
	v.SetDefault(keyDebug, false)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Config{}, fmt.Errorf("create config directory: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			log.Println("config: file not found; creating one with default values")
			if err := v.WriteConfigAs(file); err != nil {
				return Config{}, fmt.Errorf("write config file: %w", err)
			}
		} else {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		ServerURL: strings.TrimRight(v.GetString(keyServerURL), "/"),
		LoginURL:  v.GetString(keyLoginURL),
		TokenTTL:  v.GetDuration(keyTokenTTL),
		CacheTTL:  v.GetDuration(keyCacheTTL),
		DataDir:   v.GetString(keyDataDir),
		Debug:     v.GetBool(keyDebug),
		File:      file,
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = cfg.ServerURL + "/login"
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ServerURL == "" {
		return errors.New("config: server_url must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.DataDir == "" {
		return errors.New("config: data_dir must not be empty")
	}
	return nil
}
