// Command seedfinder recovers a world seed from what a player has seen in
// the world: slime chunks, structures and terrain.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	log        = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:          "seedfinder",
	Short:        "Recover a world seed from observed chunks and structures",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(configPath); err != nil {
			return err
		}
		return setupLogger(log, viper.GetString("log_level"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration `file` (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store", "", "Directory of the run database; empty disables it")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))

	rootCmd.AddCommand(searchCmd, checkCmd, slimemapCmd, biomemapCmd, runsCmd)
}

// loadConfig layers SEEDFINDER_* environment variables and an optional config
// file under the command line flags.
func loadConfig(path string) error {
	viper.SetEnvPrefix("seedfinder")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	log.WithField("file", viper.ConfigFileUsed()).Debug("Loaded config")
	return nil
}

func setupLogger(logger *logrus.Logger, level string) error {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   !isatty.IsTerminal(os.Stderr.Fd()),
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
