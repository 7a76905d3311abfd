package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Defaults for the public Swag Labs demo store
const (
	DefaultBaseURL  = "https://www.saucedemo.com/"
	DefaultAboutURL = "https://saucelabs.com/"
	DefaultUsername = "standard_user"
	DefaultPassword = "secret_sauce"
	DefaultBrowser  = "chromium"
	DefaultTimeout  = 10 * time.Second
	DefaultWorkers  = 1
)

// SuiteConfig holds configuration for a scenario run
type SuiteConfig struct {
	BaseURL         string
	AboutURL        string
	Username        string
	Password        string
	Browser         string
	Headless        bool
	Timeout         time.Duration
	Workers         int
	Record          bool
	InstallBrowsers bool
}

// LoadSuiteConfig loads suite configuration from environment variables
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := &SuiteConfig{
		BaseURL:  valueOrDefault(getenv("SWAGLABS_BASE_URL"), DefaultBaseURL),
		AboutURL: valueOrDefault(getenv("SWAGLABS_ABOUT_URL"), DefaultAboutURL),
		Username: valueOrDefault(getenv("SWAGLABS_USERNAME"), DefaultUsername),
		Password: valueOrDefault(getenv("SWAGLABS_PASSWORD"), DefaultPassword),
		Browser:  valueOrDefault(getenv("SWAGLABS_BROWSER"), DefaultBrowser),
		Headless: getenv("HEADLESS") != "false",
		Timeout:  DefaultTimeout,
		Workers:  DefaultWorkers,
	}

	if raw := getenv("SWAGLABS_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("SWAGLABS_TIMEOUT is invalid: %w", err)
		}
		config.Timeout = timeout
	}

	if raw := getenv("SWAGLABS_WORKERS"); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("SWAGLABS_WORKERS is invalid: %w", err)
		}
		config.Workers = workers
	}

	var err error
	if config.Record, err = parseBool(getenv("SWAGLABS_RECORD")); err != nil {
		return nil, fmt.Errorf("SWAGLABS_RECORD is invalid: %w", err)
	}
	if config.InstallBrowsers, err = parseBool(getenv("SWAGLABS_INSTALL_BROWSERS")); err != nil {
		return nil, fmt.Errorf("SWAGLABS_INSTALL_BROWSERS is invalid: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration, including values overridden by flags
func (c *SuiteConfig) Validate() error {
	if err := validateAbsoluteURL(c.BaseURL); err != nil {
		return fmt.Errorf("base URL: %w", err)
	}
	if err := validateAbsoluteURL(c.AboutURL); err != nil {
		return fmt.Errorf("about URL: %w", err)
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser %q (want chromium, firefox or webkit)", c.Browser)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// PageURL resolves a page path such as "inventory.html" against the base URL
func (c *SuiteConfig) PageURL(path string) string {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return c.BaseURL + path
	}
	return base.ResolveReference(ref).String()
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
