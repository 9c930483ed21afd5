package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything roster reads from config.toml.
type Config struct {
	APIURL       string        `validate:"required"`
	PageSize     int           `validate:"gte=1,ltefield=MaxPageSize"`
	MaxPageSize  int           `validate:"gte=1"`
	PageSizes    []int         `validate:"min=1,dive,gte=1"`
	AssumedTotal int           `validate:"gte=0"`
	Timeout      time.Duration `validate:"gt=0"`
	Retries      int           `validate:"gte=0,lte=10"`
	RefreshEvery time.Duration `validate:"gte=0"`
	Seed         string
	LogFile      string `validate:"required"`
	LogLevel     string `validate:"oneof=debug info warn error"`
	Serve        Serve
}

// Serve configures the bundled directory server.
type Serve struct {
	Listen    string `validate:"required,hostname_port"`
	DBPath    string `validate:"required"`
	SeedUsers int    `validate:"gte=0"`
}

const (
	defaultConfigPath   = "~/.config/roster/config.toml"
	defaultAPIURL       = "https://randomuser.me/api"
	defaultPageSize     = 8
	defaultMaxPageSize  = 100
	defaultAssumedTotal = 100
	defaultTimeout      = 5 * time.Second
	defaultSeed         = "roster"
	defaultLogFile      = "~/.local/state/roster/roster.log"
	defaultLogLevel     = "info"
	defaultListen       = "127.0.0.1:7488"
	defaultDBPath       = "~/.local/share/roster/directory.db"
	defaultSeedUsers    = 250
)

var defaultPageSizes = []int{8, 20, 50, 100}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:       defaultAPIURL,
		PageSize:     defaultPageSize,
		MaxPageSize:  defaultMaxPageSize,
		PageSizes:    slices.Clone(defaultPageSizes),
		AssumedTotal: defaultAssumedTotal,
		Timeout:      defaultTimeout,
		Seed:         defaultSeed,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
		Serve: Serve{
			Listen:    defaultListen,
			DBPath:    mustExpand(defaultDBPath),
			SeedUsers: defaultSeedUsers,
		},
	}
}

type rawConfig struct {
	APIURL       string   `toml:"api_url"`
	PageSize     *int     `toml:"page_size"`
	MaxPageSize  *int     `toml:"max_page_size"`
	PageSizes    []int    `toml:"page_sizes"`
	AssumedTotal *int     `toml:"assumed_total"`
	Timeout      string   `toml:"timeout"`
	Retries      *int     `toml:"retries"`
	RefreshEvery string   `toml:"refresh_every"`
	Seed         *string  `toml:"seed"`
	LogFile      string   `toml:"log_file"`
	LogLevel     string   `toml:"log_level"`
	Serve        rawServe `toml:"serve"`
}

type rawServe struct {
	Listen    string `toml:"listen"`
	DBPath    string `toml:"db_path"`
	SeedUsers *int   `toml:"seed_users"`
}

// Load locates and parses the roster config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := raw.apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg *Config) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize != nil {
		cfg.PageSize = *raw.PageSize
	}
	if raw.MaxPageSize != nil {
		cfg.MaxPageSize = *raw.MaxPageSize
	}
	if len(raw.PageSizes) > 0 {
		sizes := slices.Clone(raw.PageSizes)
		slices.Sort(sizes)
		cfg.PageSizes = slices.Compact(sizes)
	}
	if raw.AssumedTotal != nil {
		cfg.AssumedTotal = *raw.AssumedTotal
	}
	if raw.Retries != nil {
		cfg.Retries = *raw.Retries
	}
	if raw.Seed != nil {
		cfg.Seed = strings.TrimSpace(*raw.Seed)
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(raw.RefreshEvery); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse refresh_every: %w", err)
		}
		cfg.RefreshEvery = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Serve.Listen); v != "" {
		cfg.Serve.Listen = v
	}
	if v := strings.TrimSpace(raw.Serve.DBPath); v != "" {
		cfg.Serve.DBPath = mustExpand(v)
	}
	if raw.Serve.SeedUsers != nil {
		cfg.Serve.SeedUsers = *raw.Serve.SeedUsers
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges after defaults have been applied.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, size := range c.PageSizes {
		if size > c.MaxPageSize {
			return fmt.Errorf("invalid config: page size %d exceeds max_page_size %d", size, c.MaxPageSize)
		}
	}
	return nil
}

// PageSizeChoices returns the selectable page sizes, always including PageSize.
func (c Config) PageSizeChoices() []int {
	sizes := slices.Clone(c.PageSizes)
	if !slices.Contains(sizes, c.PageSize) {
		sizes = append(sizes, c.PageSize)
		slices.Sort(sizes)
	}
	return sizes
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
