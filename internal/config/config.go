package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Pinned ARM API version defaults. License profiles are still a preview
// API; both versions are overridable through config and environment.
const (
	DefaultMachinesAPIVersion       = "2024-07-10"
	DefaultLicenseProfileAPIVersion = "2023-06-20-preview"
)

// Config holds all application configuration
type Config struct {
	Azure     AzureConfig
	Reconcile ReconcileConfig
	Logging   LoggingConfig
	Output    string
}

// AzureConfig contains the target subscription and API versions
type AzureConfig struct {
	SubscriptionID           string
	TenantID                 string
	MachinesAPIVersion       string
	LicenseProfileAPIVersion string
}

// ReconcileConfig contains per-machine reconcile behavior
type ReconcileConfig struct {
	// Verify re-reads each license profile after a successful write.
	Verify bool
	// StrictRead surfaces 401/403 license profile read errors as failures
	// instead of treating them like a missing profile.
	StrictRead bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // console or json
}

// Load assembles configuration from viper state (config file, ARCBENEFIT_
// environment) layered over the process environment. A local .env file is
// honored so AZURE_* variables travel with a checkout.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Azure: AzureConfig{
			SubscriptionID:           fromViperOrEnv("subscription_id", "AZURE_SUBSCRIPTION_ID"),
			TenantID:                 fromViperOrEnv("tenant_id", "AZURE_TENANT_ID"),
			MachinesAPIVersion:       withDefault(viper.GetString("api.machines_version"), DefaultMachinesAPIVersion),
			LicenseProfileAPIVersion: withDefault(viper.GetString("api.license_profile_version"), DefaultLicenseProfileAPIVersion),
		},
		Reconcile: ReconcileConfig{
			Verify:     viper.GetBool("reconcile.verify"),
			StrictRead: viper.GetBool("reconcile.strict_read"),
		},
		Logging: LoggingConfig{
			Level:  withDefault(viper.GetString("log.level"), "info"),
			Format: withDefault(viper.GetString("log.format"), "console"),
		},
		Output: withDefault(viper.GetString("output"), "table"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}

	return nil
}

// Helper functions

func fromViperOrEnv(key, envKey string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envKey)
}

func withDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}
