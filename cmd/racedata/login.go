package main

import (
	"github.com/spf13/cobra"
)

func loginCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify the configured credentials against the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			client, err := newClient(cfg, log)
			if err != nil {
				return err
			}

			if err := client.Session().EnsureAuthenticated(cmd.Context()); err != nil {
				return err
			}

			log.Info("credentials verified", "email", cfg.API.Email)
			return nil
		},
	}
}
