package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/recurpay/internal/recurerror"
	"fjacquet/recurpay/internal/store"
)

// Config is the complete application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Detection  DetectionConfig  `mapstructure:"detection" yaml:"detection"`
	Monitor    MonitorConfig    `mapstructure:"monitor" yaml:"monitor"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
}

// LogConfig controls the structured log output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DetectionConfig holds the pattern-detection thresholds.
type DetectionConfig struct {
	MinOccurrences       int     `mapstructure:"min_occurrences" yaml:"min_occurrences"`
	LookbackMonths       int     `mapstructure:"lookback_months" yaml:"lookback_months"`
	TolerancePercent     float64 `mapstructure:"tolerance_percent" yaml:"tolerance_percent"`
	ConfidenceThreshold  float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	DateVarianceDays     float64 `mapstructure:"date_variance_days" yaml:"date_variance_days"`
	AutoConfirmThreshold float64 `mapstructure:"auto_confirm_threshold" yaml:"auto_confirm_threshold"`
	AutoConfirmMaxRisk   float64 `mapstructure:"auto_confirm_max_risk" yaml:"auto_confirm_max_risk"`
}

// MonitorConfig holds the notification-pass settings.
type MonitorConfig struct {
	DefaultReminderDays []int `mapstructure:"default_reminder_days" yaml:"default_reminder_days"`
	BatchWorkers        int   `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// DatabaseConfig selects and parameterizes the storage backend. The DSN
// carries credentials and is never serialized.
type DatabaseConfig struct {
	Driver  string `mapstructure:"driver" yaml:"driver"`
	DSN     string `mapstructure:"dsn" yaml:"-"`
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// CategoriesConfig points at the category reference files.
type CategoriesConfig struct {
	CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
	MerchantsFile  string `mapstructure:"merchants_file" yaml:"merchants_file"`
}

// AIConfig controls the Gemini-backed categorization fallback. The API
// key comes from the environment and is never serialized.
type AIConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
	APIKey  string `mapstructure:"api_key" yaml:"-"`
}

// InitializeConfig loads the configuration from defaults, an optional
// recurpay.yaml found on the search path, and RECURPAY_* environment
// variables.
func InitializeConfig() (*Config, error) {
	return initializeConfig("")
}

// InitializeConfigFile loads the configuration from an explicit file.
// Unlike the search-path variant, a missing file is an error.
func InitializeConfigFile(path string) (*Config, error) {
	return initializeConfig(path)
}

func initializeConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recurpay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		v.AddConfigPath("$HOME/.config/recurpay")
	}

	v.SetEnvPrefix("RECURPAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	// Secrets bind to their conventional unprefixed variables.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("database.dsn", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("detection.min_occurrences", 3)
	v.SetDefault("detection.lookback_months", 12)
	v.SetDefault("detection.tolerance_percent", 10.0)
	v.SetDefault("detection.confidence_threshold", 0.5)
	v.SetDefault("detection.date_variance_days", 7.0)
	v.SetDefault("detection.auto_confirm_threshold", 0.8)
	v.SetDefault("detection.auto_confirm_max_risk", 0.6)

	v.SetDefault("monitor.default_reminder_days", []int{1, 3, 7})
	v.SetDefault("monitor.batch_workers", 0)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.data_dir", "data")

	v.SetDefault("categories.categories_file", "categories.yaml")
	v.SetDefault("categories.merchants_file", "merchants.yaml")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
}

// validateConfig checks every field and reports all offending keys in one
// error rather than stopping at the first.
func validateConfig(config *Config) error {
	var problems []string

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: unknown level %q", config.Log.Level))
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		problems = append(problems, fmt.Sprintf("log.format: must be 'text' or 'json', got %q", config.Log.Format))
	}

	if config.Detection.MinOccurrences < 2 {
		problems = append(problems, fmt.Sprintf("detection.min_occurrences: must be at least 2, got %d", config.Detection.MinOccurrences))
	}
	if config.Detection.LookbackMonths < 1 {
		problems = append(problems, fmt.Sprintf("detection.lookback_months: must be at least 1, got %d", config.Detection.LookbackMonths))
	}
	if config.Detection.TolerancePercent < 0 {
		problems = append(problems, fmt.Sprintf("detection.tolerance_percent: must not be negative, got %g", config.Detection.TolerancePercent))
	}
	if config.Detection.ConfidenceThreshold < 0 || config.Detection.ConfidenceThreshold > 1 {
		problems = append(problems, fmt.Sprintf("detection.confidence_threshold: must be between 0 and 1, got %g", config.Detection.ConfidenceThreshold))
	}
	if config.Detection.AutoConfirmThreshold < 0 || config.Detection.AutoConfirmThreshold > 1 {
		problems = append(problems, fmt.Sprintf("detection.auto_confirm_threshold: must be between 0 and 1, got %g", config.Detection.AutoConfirmThreshold))
	}
	if config.Detection.AutoConfirmMaxRisk < 0 || config.Detection.AutoConfirmMaxRisk > 1 {
		problems = append(problems, fmt.Sprintf("detection.auto_confirm_max_risk: must be between 0 and 1, got %g", config.Detection.AutoConfirmMaxRisk))
	}

	for _, d := range config.Monitor.DefaultReminderDays {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("monitor.default_reminder_days: offsets must be positive, got %d", d))
			break
		}
	}
	if config.Monitor.BatchWorkers < 0 {
		problems = append(problems, fmt.Sprintf("monitor.batch_workers: must not be negative, got %d", config.Monitor.BatchWorkers))
	}

	driver, err := store.ParseDriver(config.Database.Driver)
	if err != nil {
		problems = append(problems, fmt.Sprintf("database.driver: %v", err))
	} else if driver == store.DriverPostgres && config.Database.DSN == "" {
		problems = append(problems, "database.dsn: required for the postgres driver (set DATABASE_URL)")
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		problems = append(problems, "ai.api_key: GEMINI_API_KEY required when AI is enabled")
	}

	if len(problems) > 0 {
		return &recurerror.ValidationError{
			Subject: "configuration",
			Reason:  strings.Join(problems, "; "),
		}
	}
	return nil
}
