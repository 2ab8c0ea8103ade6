package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort      = 1314
	DefaultStatePath = "data.json"
)

// Config is the static configuration of one lottery deployment.
type Config struct {
	Port           int
	StatePath      string
	CatalogPath    string
	LogFile        string
	Verbose        bool
	AllowedOrigins []string
	GinMode        string
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads the configuration from the environment. Variables found in
// envFile are applied first without overriding the real environment; a
// missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c := Config{
		Port:           DefaultPort,
		StatePath:      envOr("LOTTERY_STATE_PATH", DefaultStatePath),
		CatalogPath:    os.Getenv("LOTTERY_CATALOG"),
		LogFile:        os.Getenv("LOTTERY_LOG_FILE"),
		AllowedOrigins: parseList(envOr("LOTTERY_CORS_ORIGINS", "*")),
		GinMode:        envOr("GIN_MODE", "release"),
	}

	if v := os.Getenv("LOTTERY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("invalid LOTTERY_PORT %q", v)
		}
		c.Port = port
	}

	if v := os.Getenv("LOTTERY_VERBOSE"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOTTERY_VERBOSE %q: %w", v, err)
		}
		c.Verbose = verbose
	}

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
