package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"cropadvisor/internal/domain/agronomy"
)

const (
	defaultDatabaseURL = "postgres://localhost:5432/cropadvisor?sslmode=disable"
	defaultHTTPAddr    = ":8080"
	defaultLocale      = "en"
	defaultLogLevel    = "info"
)

// Config is built once at startup and passed to constructors; nothing reads
// the environment after Load returns.
type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	DefaultLocale string
	LogLevel      string
	DiscordToken  string
	AutoMigrate   bool
	Yield         agronomy.YieldTable
}

// DiscordEnabled reports whether the Discord adapter should start.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI, etc.).
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		DefaultLocale: os.Getenv("DEFAULT_LOCALE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		DiscordToken:  strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		AutoMigrate:   true,
		Yield:         agronomy.DefaultYieldTable(),
	}

	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid AUTO_MIGRATE (%q): %w", v, err)
		}
		cfg.AutoMigrate = b
	}

	if path := os.Getenv("AGRONOMY_FILE"); path != "" {
		table, err := LoadYieldTable(path)
		if err != nil {
			return nil, err
		}
		cfg.Yield = table
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadYieldTable reads a TOML rule table. Fields absent from the file keep
// their baseline values; base_yields entries are added to the baseline crops.
func LoadYieldTable(path string) (agronomy.YieldTable, error) {
	table := agronomy.DefaultYieldTable()

	data, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("config: read agronomy file: %w", err)
	}

	var overlay agronomy.YieldTable
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return table, fmt.Errorf("config: parse agronomy file %s: %w", path, err)
	}

	for crop, v := range overlay.BaseYields {
		table.BaseYields[agronomy.NormalizeCrop(crop)] = v
	}
	if overlay.DefaultBaseYield != 0 {
		table.DefaultBaseYield = overlay.DefaultBaseYield
	}
	n := overlay.Nitrogen
	if n.LowThreshold != 0 {
		table.Nitrogen.LowThreshold = n.LowThreshold
	}
	if n.LowFactor != 0 {
		table.Nitrogen.LowFactor = n.LowFactor
	}
	if n.ModerateThreshold != 0 {
		table.Nitrogen.ModerateThreshold = n.ModerateThreshold
	}
	if n.ModerateFactor != 0 {
		table.Nitrogen.ModerateFactor = n.ModerateFactor
	}

	return table, nil
}

// validate applies defaults and checks every loaded value.
func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Local default when DATABASE_URL is not provided.
		c.DatabaseURL = defaultDatabaseURL
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("config: invalid DATABASE_URL: missing scheme or host")
	}

	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = defaultHTTPAddr
	}

	c.DefaultLocale = strings.ToLower(strings.TrimSpace(c.DefaultLocale))
	if c.DefaultLocale == "" {
		c.DefaultLocale = defaultLocale
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("config: invalid DEFAULT_LOCALE (%q): %w", c.DefaultLocale, err)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid LOG_LEVEL (%q): want debug, info, warn or error", c.LogLevel)
	}

	return validateYieldTable(c.Yield)
}

func validateYieldTable(t agronomy.YieldTable) error {
	if t.DefaultBaseYield <= 0 {
		return errors.New("config: default_base_yield must be positive")
	}
	for crop, v := range t.BaseYields {
		if v <= 0 {
			return fmt.Errorf("config: base_yields.%s must be positive", crop)
		}
	}
	n := t.Nitrogen
	if n.LowThreshold < 0 || n.LowThreshold >= n.ModerateThreshold {
		return errors.New("config: nitrogen.low_threshold must be below nitrogen.moderate_threshold")
	}
	for name, f := range map[string]float64{"low_factor": n.LowFactor, "moderate_factor": n.ModerateFactor} {
		if f <= 0 || f > 1 {
			return fmt.Errorf("config: nitrogen.%s must be in (0, 1]", name)
		}
	}
	return nil
}
