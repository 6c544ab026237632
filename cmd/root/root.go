// Package root contains the root command for the application
package root

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/internal/common"
	"fjacquet/recurpay/internal/config"
	"fjacquet/recurpay/internal/container"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/store"
)

// CommonFlags represents the flags that are shared by multiple commands
type CommonFlags struct {
	User   string
	Output string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is the loaded configuration, set by PersistentPreRun
	AppConfig *config.Config

	// AppContainer holds the wired services, set by PersistentPreRun
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "recurpay",
		Short: "A CLI tool to detect recurring payments and watch their due dates.",
		Long: `recurpay analyzes account transaction history to find subscriptions and
other recurring payments, tracks the confirmed ones and raises alerts
before the next charge is due.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to recurpay!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := loadConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			// Command-line log flags win over file and env settings.
			if LogLevel != "" {
				cfg.Log.Level = LogLevel
			}
			if LogFormat != "" {
				cfg.Log.Format = LogFormat
			}
			AppConfig = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetLogger(Log)
			common.SetLogger(Log)
			store.SetLogger(Log)

			// Ensure CSV delimiter is updated after env variables are loaded
			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				common.SetDelimiter([]rune(delim)[0])
			}

			c, err := container.NewContainer(cmd.Context(), cfg)
			if err != nil {
				Log.WithError(err).Fatal("Failed to initialize services")
			}
			AppContainer = c
		},
		// Persist whatever the categorizer learned once ANY command finishes
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.GetCategorizer().SaveMappings(); err != nil {
				Log.WithError(err).Warn("Failed to save merchant mappings")
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close services")
			}
			AppContainer = nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile overrides the configuration search path
	ConfigFile string

	// LogLevel and LogFormat override the configured logging when set
	LogLevel  string
	LogFormat string

	// Version is stamped at build time via -ldflags
	Version = "dev"
)

// Init initializes the root command and all persistent flags
func Init() {
	Cmd.Version = Version
	Cmd.PersistentFlags().StringVarP(&SharedFlags.User, "user", "u", "", "User the command operates on")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (defaults to stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format: text, json or csv")
	Cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Configuration file path")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Override the configured log level")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Override the configured log format (text or json)")
}

func loadConfig() (*config.Config, error) {
	if ConfigFile != "" {
		return config.InitializeConfigFile(ConfigFile)
	}
	return config.InitializeConfig()
}

// GetConfig returns the loaded configuration, loading it on first use
// when no command lifecycle has run yet.
func GetConfig() *config.Config {
	if AppConfig == nil {
		cfg, err := loadConfig()
		if err != nil {
			Log.WithError(err).Fatal("Failed to load configuration")
		}
		AppConfig = cfg
	}
	return AppConfig
}

// GetContainer returns the wired service container, building one from the
// current configuration when no command lifecycle has built it yet.
func GetContainer() *container.Container {
	if AppContainer == nil {
		c, err := container.NewContainer(context.Background(), GetConfig())
		if err != nil {
			Log.WithError(err).Fatal("Failed to initialize services")
		}
		AppContainer = c
	}
	return AppContainer
}

// GetLogrusAdapter returns a logrus-backed logger built from the loaded
// configuration, or from the logging defaults before configuration loads.
func GetLogrusAdapter() logging.Logger {
	if AppConfig != nil {
		return logging.NewLogrusAdapter(AppConfig.Log.Level, AppConfig.Log.Format)
	}
	return logging.NewLogrusAdapter("info", "text")
}
