// Package config loads the admin console settings from a yaml file, the
// environment (optionally seeded from .env) and command line flags.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Mode selects the surfaces that are started.
type Mode string

const (
	ModeTUI  Mode = "tui"
	ModeWeb  Mode = "web"
	ModeBoth Mode = "both"
)

const (
	defaultPageSize        = 25
	defaultSearchDelay     = 500 * time.Millisecond
	defaultSearchMinLength = 3
	defaultRequestTimeout  = 30 * time.Second
	defaultCacheTTL        = time.Minute
	defaultPingRetries     = 3
	defaultWebAddr         = "127.0.0.1:8088"
	defaultPrefsDir        = "./wal/prefs"
	defaultLocale          = "en"
	maxPageSize            = 200
)

type Config struct {
	APIURL          string
	APIToken        string
	Locale          string
	Mode            Mode
	WebAddr         string
	PrefsDir        string
	PageSize        int
	SearchDelay     time.Duration
	SearchMinLength int
	RequestTimeout  time.Duration
	CacheTTL        time.Duration
	PingRetries     int
	Debug           bool
}

// ConfigTmp is the yaml shape; numbers are kept as strings so that a typo is
// reported with the field name.
type ConfigTmp struct {
	APIURL             string        `yaml:"api_url"`
	APIToken           string        `yaml:"api_token,omitempty"`
	Locale             string        `yaml:"locale,omitempty"`
	Mode               string        `yaml:"mode,omitempty"`
	WebAddr            string        `yaml:"web_addr,omitempty"`
	PrefsDir           string        `yaml:"prefs_dir,omitempty"`
	PageSizeStr        string        `yaml:"page_size,omitempty"`
	SearchDelay        time.Duration `yaml:"search_delay,omitempty"`
	SearchMinLengthStr string        `yaml:"search_min_length,omitempty"`
	RequestTimeout     time.Duration `yaml:"request_timeout,omitempty"`
	CacheTTL           time.Duration `yaml:"cache_ttl,omitempty"`
	PingRetriesStr     string        `yaml:"ping_retries,omitempty"`
	Debug              bool          `yaml:"debug,omitempty"`
}

// envConfig values override the yaml file when set.
type envConfig struct {
	APIURL   string `env:"MSQUARE_API_URL"`
	APIToken string `env:"MSQUARE_API_TOKEN"`
	Locale   string `env:"MSQUARE_LOCALE"`
	WebAddr  string `env:"MSQUARE_WEB_ADDR"`
	PrefsDir string `env:"MSQUARE_PREFS_DIR"`
	Mode     string `env:"MSQUARE_MODE"`
	Debug    bool   `env:"MSQUARE_DEBUG"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Locale:          defaultLocale,
		Mode:            ModeTUI,
		WebAddr:         defaultWebAddr,
		PrefsDir:        defaultPrefsDir,
		PageSize:        defaultPageSize,
		SearchDelay:     defaultSearchDelay,
		SearchMinLength: defaultSearchMinLength,
		RequestTimeout:  defaultRequestTimeout,
		CacheTTL:        defaultCacheTTL,
		PingRetries:     defaultPingRetries,
	}
}

// Load reads path (optional) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		tmp, err := readYaml(path)
		if err != nil {
			return Config{}, err
		}
		if err := tmp.apply(&cfg); err != nil {
			return Config{}, errors.Wrapf(err, "invalid config %s", path)
		}
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse environment")
	}
	ec.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readYaml(path string) (ConfigTmp, error) {
	var tmp ConfigTmp
	f, err := os.ReadFile(path)
	if err != nil {
		return tmp, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return tmp, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return tmp, nil
}

func (c ConfigTmp) apply(cfg *Config) error {
	setString(&cfg.APIURL, c.APIURL)
	setString(&cfg.APIToken, c.APIToken)
	setString(&cfg.Locale, c.Locale)
	setString(&cfg.WebAddr, c.WebAddr)
	setString(&cfg.PrefsDir, c.PrefsDir)
	if c.Mode != "" {
		cfg.Mode = Mode(strings.ToLower(c.Mode))
	}
	if c.SearchDelay > 0 {
		cfg.SearchDelay = c.SearchDelay
	}
	if c.RequestTimeout > 0 {
		cfg.RequestTimeout = c.RequestTimeout
	}
	if c.CacheTTL != 0 {
		cfg.CacheTTL = c.CacheTTL
	}
	cfg.Debug = cfg.Debug || c.Debug

	var err error
	if cfg.PageSize, err = parseInt("page_size", c.PageSizeStr, cfg.PageSize); err != nil {
		return err
	}
	if cfg.SearchMinLength, err = parseInt("search_min_length", c.SearchMinLengthStr, cfg.SearchMinLength); err != nil {
		return err
	}
	if cfg.PingRetries, err = parseInt("ping_retries", c.PingRetriesStr, cfg.PingRetries); err != nil {
		return err
	}
	return nil
}

func (e envConfig) apply(cfg *Config) {
	setString(&cfg.APIURL, e.APIURL)
	setString(&cfg.APIToken, e.APIToken)
	setString(&cfg.Locale, e.Locale)
	setString(&cfg.WebAddr, e.WebAddr)
	setString(&cfg.PrefsDir, e.PrefsDir)
	if e.Mode != "" {
		cfg.Mode = Mode(strings.ToLower(e.Mode))
	}
	cfg.Debug = cfg.Debug || e.Debug
}

// Validate checks that the settings can start a console.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is required (api_url in yaml or MSQUARE_API_URL)")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return errors.Errorf("api url %q must start with http:// or https://", c.APIURL)
	}
	switch c.Mode {
	case ModeTUI, ModeWeb, ModeBoth:
	default:
		return errors.Errorf("unknown mode %q, expected tui, web or both", c.Mode)
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return errors.Errorf("page_size must be between 1 and %d, got %d", maxPageSize, c.PageSize)
	}
	if c.SearchMinLength < 1 {
		return errors.Errorf("search_min_length must be positive, got %d", c.SearchMinLength)
	}
	if c.PingRetries < 0 {
		return errors.Errorf("ping_retries must not be negative, got %d", c.PingRetries)
	}
	return nil
}

// Tmp converts the settings back to the yaml shape.
func (c Config) Tmp() ConfigTmp {
	return ConfigTmp{
		APIURL:             c.APIURL,
		APIToken:           c.APIToken,
		Locale:             c.Locale,
		Mode:               string(c.Mode),
		WebAddr:            c.WebAddr,
		PrefsDir:           c.PrefsDir,
		PageSizeStr:        strconv.Itoa(c.PageSize),
		SearchDelay:        c.SearchDelay,
		SearchMinLengthStr: strconv.Itoa(c.SearchMinLength),
		RequestTimeout:     c.RequestTimeout,
		CacheTTL:           c.CacheTTL,
		PingRetriesStr:     strconv.Itoa(c.PingRetries),
		Debug:              c.Debug,
	}
}

// Write stores c as yaml at path.
func Write(path string, c Config) error {
	data, err := yaml.Marshal(c.Tmp())
	if err != nil {
		return errors.Wrap(err, "failed to generate yaml")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to save config file %s", path)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func parseInt(field, raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "incorrect '%s' param (must be an integer)", field)
	}
	return n, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
