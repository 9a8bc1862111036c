// ABOUTME: Salesforce connection configuration and OAuth client settings
// ABOUTME: Loads config from XDG data path, a local .env file, and environment overrides
package salesforce

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

const (
	ProductionLoginURL = "https://login.salesforce.com"
	SandboxLoginURL    = "https://test.salesforce.com"
	DefaultAPIVersion  = "v59.0"
	DefaultRedirectURL = "http://localhost:8080/oauth/callback"

	tokenPath     = "/services/oauth2/token"
	authorizePath = "/services/oauth2/authorize"
)

// Config stores the OAuth app and org settings used to talk to Salesforce.
type Config struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Sandbox      bool   `json:"sandbox"`
	LoginURL     string `json:"login_url,omitempty"` // overrides the production/sandbox host
	APIVersion   string `json:"api_version,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`

	// DefaultCountry is only consulted for orgs without coded address fields,
	// when a state is supplied without a country.
	DefaultCountry string `json:"default_country,omitempty"`

	// UseMock swaps the REST client for the in-memory mock.
	UseMock bool `json:"use_mock,omitempty"`

	// SuggestionsPath points at exported meeting suggestions: one JSON file,
	// or a directory of <meeting id>.json files.
	SuggestionsPath string `json:"suggestions_path,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
}

// ConfigDir returns XDG-compliant directory for crmbridge data.
func ConfigDir() string {
	return filepath.Join(xdg.DataHome, "crmbridge")
}

// ConfigPath returns XDG-compliant path for the Salesforce configuration.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "salesforce-config.json")
}

// DatabasePath returns the SQLite file holding credentials and the update log.
func DatabasePath() string {
	return filepath.Join(ConfigDir(), "crmbridge.db")
}

// DefaultConfig returns a config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		APIVersion:  DefaultAPIVersion,
		RedirectURL: DefaultRedirectURL,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// LoadConfig loads configuration from the XDG data directory. A missing file
// yields defaults. A .env file in the working directory is loaded first, then
// environment variables override file values:
// - SALESFORCE_CLIENT_ID
// - SALESFORCE_CLIENT_SECRET
// - SALESFORCE_SANDBOX
// - SALESFORCE_LOGIN_URL
// - SALESFORCE_API_VERSION
// - SALESFORCE_DEFAULT_COUNTRY
// - CRMBRIDGE_MOCK_CRM
// - CRMBRIDGE_SUGGESTIONS
// - CRMBRIDGE_LOG_LEVEL
// - CRMBRIDGE_LOG_FORMAT.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	f, err := os.Open(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open salesforce config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode salesforce config: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = DefaultRedirectURL
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SALESFORCE_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("SALESFORCE_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv("SALESFORCE_SANDBOX"); v != "" {
		cfg.Sandbox = isTruthy(v)
	}
	if v := os.Getenv("SALESFORCE_LOGIN_URL"); v != "" {
		cfg.LoginURL = v
	}
	if v := os.Getenv("SALESFORCE_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv("SALESFORCE_DEFAULT_COUNTRY"); v != "" {
		cfg.DefaultCountry = v
	}
	if v := os.Getenv("CRMBRIDGE_MOCK_CRM"); v != "" {
		cfg.UseMock = isTruthy(v)
	}
	if v := os.Getenv("CRMBRIDGE_SUGGESTIONS"); v != "" {
		cfg.SuggestionsPath = v
	}
	if v := os.Getenv("CRMBRIDGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CRMBRIDGE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func isTruthy(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes"
}

// SaveConfig writes configuration to the XDG data directory.
func SaveConfig(cfg *Config) error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Site returns the login host the OAuth endpoints live on.
func (c *Config) Site() string {
	if c.LoginURL != "" {
		return strings.TrimRight(c.LoginURL, "/")
	}
	if c.Sandbox {
		return SandboxLoginURL
	}
	return ProductionLoginURL
}

// OAuthConfig builds the oauth2 client settings for the configured site.
// Client credentials are sent in the form body, as Salesforce expects.
func (c *Config) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       []string{"api", "refresh_token"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.Site() + authorizePath,
			TokenURL:  c.Site() + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AddressOptions returns the normalizer settings derived from this config.
func (c *Config) AddressOptions() AddressOptions {
	return AddressOptions{DefaultCountry: c.DefaultCountry}
}

// IsConfigured reports whether OAuth client credentials are present.
func (c *Config) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
