package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/notifperf-api/internal/config"
	"github.com/notifperf-api/internal/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cfg is populated by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "notifperf",
	Short:         "notifperf serves notifications and their synthetic performance metrics",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil {
			logrus.Debug("no .env file found, reading from environment")
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logger.Init(logger.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			Dev:    cfg.IsDevelopment(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
