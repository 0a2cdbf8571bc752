package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token with the configured private key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		scope, _ := cmd.Flags().GetString("scope")

		provider, err := newJWTProvider(cfg)
		if err != nil {
			return err
		}
		if provider == nil {
			return errors.New("JWT_PUBLIC_KEY_PATH is not set")
		}
		token, err := provider.Sign(subject, scope)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("subject", "cli", "token subject")
	tokenCmd.Flags().String("scope", "", "optional scope claim")
}
