package main

import (
	"encoding/json"

	"github.com/notifperf-api/internal/application/performance"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one batch of performance metrics and print the report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		be, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer be.close()

		opts := []performance.Option{performance.WithLocation(cfg.Location())}
		publisher, err := newPublisher(ctx, cfg)
		if err != nil {
			return err
		}
		if publisher != nil {
			opts = append(opts, performance.WithPublisher(publisher))
		}

		report, err := performance.NewService(be.notifications, be.performances, opts...).Generate(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}
