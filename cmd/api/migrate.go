package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and indexes for the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		be, err := openBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer be.close()

		if err := be.migrate(cmd.Context()); err != nil {
			return err
		}
		logrus.WithField("store", cfg.StoreDriver).Info("migration finished")
		return nil
	},
}
