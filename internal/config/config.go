package config

import (
	"net/url"
	"strings"

	"kycflow/internal/errors"

	"github.com/spf13/viper"
)

// Service names, also used as config key prefixes (CONVERT_PORT, BANK_HOST, ...)
const (
	ServiceConvert = "convert"
	ServiceBank    = "bank"
	ServiceRelay   = "relay"
	ServiceKYC     = "kyc"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig
	Data     DataConfig
	Upstream UpstreamConfig
	Services map[string]ServerConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Name     string
	LogLevel string
	Debug    bool
}

// DataConfig holds spreadsheet locations
type DataConfig struct {
	Dir          string
	BankWorkbook string
	BankSheet    string
}

// UpstreamConfig holds the downstream services payloads are relayed to
type UpstreamConfig struct {
	// BankOnboardURL may contain {applicant_id}
	BankOnboardURL   string
	PartialTargetURL string
	KYCTargetURL     string
}

// ServerConfig holds listening settings for one service
type ServerConfig struct {
	Host string
	Port int
}

var defaultServers = map[string]ServerConfig{
	ServiceConvert: {Host: "127.0.0.1", Port: 5000},
	ServiceBank:    {Host: "127.0.0.1", Port: 5001},
	ServiceRelay:   {Host: "0.0.0.0", Port: 5003},
	ServiceKYC:     {Host: "0.0.0.0", Port: 8000},
}

// Load reads configuration from the environment (and .env, loaded by the caller) and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration using the given viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			LogLevel: strings.ToUpper(v.GetString("LOG_LEVEL")),
			Debug:    v.GetBool("DEBUG"),
		},
		Data: DataConfig{
			Dir:          v.GetString("DATA_DIR"),
			BankWorkbook: v.GetString("BANK_WORKBOOK"),
			BankSheet:    v.GetString("BANK_SHEET"),
		},
		Upstream: UpstreamConfig{
			BankOnboardURL:   v.GetString("BANK_ONBOARD_URL"),
			PartialTargetURL: v.GetString("PARTIAL_TARGET_URL"),
			KYCTargetURL:     v.GetString("KYC_TARGET_URL"),
		},
		Services: make(map[string]ServerConfig, len(defaultServers)),
	}

	for name := range defaultServers {
		prefix := strings.ToUpper(name)
		config.Services[name] = ServerConfig{
			Host: v.GetString(prefix + "_HOST"),
			Port: v.GetInt(prefix + "_PORT"),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration again, for callers that change it after Load
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "kycflow")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("DEBUG", false)

	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("BANK_WORKBOOK", "sample_excel_api.xlsx")
	v.SetDefault("BANK_SHEET", "Bank_Data")

	v.SetDefault("BANK_ONBOARD_URL", "http://localhost:5004/onboard-Applicant/{applicant_id}")
	v.SetDefault("PARTIAL_TARGET_URL", "http://localhost:5004/receive-partial-application")
	v.SetDefault("KYC_TARGET_URL", "http://localhost:5004/onboard-kyc")

	for name, server := range defaultServers {
		prefix := strings.ToUpper(name)
		v.SetDefault(prefix+"_HOST", server.Host)
		v.SetDefault(prefix+"_PORT", server.Port)
	}
}

func validateConfig(config *Config) error {
	if config.Data.BankWorkbook == "" {
		return errors.ConfigInvalid("BANK_WORKBOOK is required")
	}
	if config.Data.BankSheet == "" {
		return errors.ConfigInvalid("BANK_SHEET is required")
	}

	upstreams := map[string]string{
		"BANK_ONBOARD_URL":   config.Upstream.BankOnboardURL,
		"PARTIAL_TARGET_URL": config.Upstream.PartialTargetURL,
		"KYC_TARGET_URL":     config.Upstream.KYCTargetURL,
	}
	for key, raw := range upstreams {
		u, err := url.Parse(strings.ReplaceAll(raw, "{applicant_id}", "x"))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.ConfigInvalid(key + " must be an absolute URL")
		}
	}

	for name, server := range config.Services {
		if server.Port <= 0 || server.Port > 65535 {
			return errors.ConfigInvalid(strings.ToUpper(name) + "_PORT must be between 1 and 65535")
		}
	}
	return nil
}

// Server returns the listening settings for a service, falling back to the built-in default
func (c *Config) Server(name string) ServerConfig {
	if server, ok := c.Services[name]; ok {
		return server
	}
	return defaultServers[name]
}
