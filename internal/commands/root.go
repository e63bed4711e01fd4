// internal/commands/root.go
package medivise

import (
	"fmt"
	"os"

	"github.com/medivise/medivise/internal/appconfig"
	"github.com/medivise/medivise/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medivise",
	Short: "medivise — terminal companion for understanding your medical documents",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("model") || viper.GetString("model") != "" {
			cfg.Model = viper.GetString("model")
		}
		if cmd.Flags().Changed("baseUrl") || viper.GetString("baseUrl") != "" {
			cfg.BaseURL = viper.GetString("baseUrl")
		}
		if cmd.Flags().Changed("style") || viper.GetString("style") != "" {
			cfg.Style = viper.GetString("style")
		}
		if cmd.Flags().Changed("logFile") || viper.GetString("logFile") != "" {
			cfg.LogFile = viper.GetString("logFile")
		}
		if cmd.Flags().Changed("debug") || viper.GetBool("debug") {
			cfg.Debug = viper.GetBool("debug")
		}
		if cmd.Flags().Changed("metrics") || viper.GetBool("metrics") {
			cfg.Metrics = viper.GetBool("metrics")
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("metrics", false, "print gateway call metrics after each command")
	rootCmd.PersistentFlags().String("model", "", "generation model name")
	rootCmd.PersistentFlags().String("baseUrl", "", "generation service base URL")
	rootCmd.PersistentFlags().String("style", "", "summary style (clinical, patient-friendly, insurance-appeal)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("metrics", rootCmd.PersistentFlags().Lookup("metrics"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("baseUrl", rootCmd.PersistentFlags().Lookup("baseUrl"))
	_ = viper.BindPFlag("style", rootCmd.PersistentFlags().Lookup("style"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig reads the config file. A missing file falls back to defaults so
// the CLI works out of the box against a local service.
func loadConfig() (appconfig.Config, error) {
	if cfgFile == "" {
		return appconfig.Config{}, nil
	}
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return appconfig.Config{}, nil
	}
	cfg, err := appconfig.Load(cfgFile)
	if err != nil {
		return appconfig.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// MetricsEnabled returns true if call metrics should be printed.
func MetricsEnabled() bool { return viper.GetBool("metrics") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
