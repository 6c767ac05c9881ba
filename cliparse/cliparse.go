package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = 3318
	defaultRequestTimeout = 30 * time.Second
	defaultMaxUploadBytes = 10 << 20
	defaultEnvFile        = ".env"
	defaultLogLevel       = "info"
)

type Config struct {
	Port           int
	BackendURL     string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	AllowedOrigin  string
	LogLevel       string
}

// ParseFlags loads .env, parses flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, timeout string

	fs := flag.NewFlagSet("health-predictor", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.BackendURL, "b", "", "Inference backend base URL")
	fs.StringVar(&timeout, "timeout", "", "Backend request timeout, 0 disables (default 30s)")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", 0, "Maximum image upload size in bytes")
	fs.StringVar(&cfg.AllowedOrigin, "origin", "", "Allowed CORS origin")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&envFile, "env", "", "Path to a .env file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = os.Getenv("BACKEND_URL")
	}
	if cfg.BackendURL == "" {
		return Config{}, errors.New("backend URL required (use -b or BACKEND_URL env)")
	}

	if timeout == "" {
		timeout = os.Getenv("REQUEST_TIMEOUT")
	}
	if timeout == "" {
		cfg.RequestTimeout = defaultRequestTimeout
	} else {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid request timeout %q", timeout)
		}
		cfg.RequestTimeout = d
	}

	if cfg.MaxUploadBytes == 0 {
		if s := os.Getenv("MAX_UPLOAD_BYTES"); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid MAX_UPLOAD_BYTES env variable")
			}
			cfg.MaxUploadBytes = n
		} else {
			cfg.MaxUploadBytes = defaultMaxUploadBytes
		}
	}
	if cfg.MaxUploadBytes < 0 {
		return Config{}, errors.New("max upload size must be positive")
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = os.Getenv("ALLOWED_ORIGIN")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = defaultLogLevel
		}
	}
	if _, ok := logLevels[strings.ToLower(cfg.LogLevel)]; !ok {
		return Config{}, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	return cfg, nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLogLevel maps a level name to its slog.Level, defaulting to info
func ParseLogLevel(name string) slog.Level {
	if l, ok := logLevels[strings.ToLower(name)]; ok {
		return l
	}
	return slog.LevelInfo
}

// loadEnvFile populates unset environment variables from a .env file.
// A missing default file is ignored; a missing explicit file is an error.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ClientConfig configures the terminal client
type ClientConfig struct {
	BackendURL     string
	ProxyURL       string
	RequestTimeout time.Duration
	LogFile        string
}

// BaseURL is the gateway base: the proxy's /api prefix when a proxy is
// configured, otherwise the backend itself
func (c ClientConfig) BaseURL() string {
	if c.ProxyURL != "" {
		return strings.TrimRight(c.ProxyURL, "/") + "/api"
	}
	return c.BackendURL
}

// ParseClientFlags parses the terminal client's flags with the same env
// fallbacks as the server
func ParseClientFlags(args []string) (ClientConfig, error) {
	var cfg ClientConfig
	var envFile, timeout string

	fs := flag.NewFlagSet("predictor-tui", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendURL, "b", "", "Inference backend base URL (direct path)")
	fs.StringVar(&cfg.ProxyURL, "proxy", "", "Proxy server URL (same-origin path)")
	fs.StringVar(&timeout, "timeout", "", "Backend request timeout, 0 disables (default 30s)")
	fs.StringVar(&cfg.LogFile, "log", "", "Write logs to this file")
	fs.StringVar(&envFile, "env", "", "Path to a .env file")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return ClientConfig{}, err
	}

	if cfg.ProxyURL == "" {
		cfg.ProxyURL = os.Getenv("PROXY_URL")
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = os.Getenv("BACKEND_URL")
	}
	if cfg.BackendURL == "" && cfg.ProxyURL == "" {
		return ClientConfig{}, errors.New("backend or proxy URL required (use -b, -proxy, BACKEND_URL or PROXY_URL)")
	}

	if timeout == "" {
		timeout = os.Getenv("REQUEST_TIMEOUT")
	}
	if timeout == "" {
		cfg.RequestTimeout = defaultRequestTimeout
	} else {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return ClientConfig{}, fmt.Errorf("invalid request timeout %q", timeout)
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}
