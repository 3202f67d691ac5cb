package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apexline/racedata/common/clients"
	"github.com/apexline/racedata/common/config"
	"github.com/apexline/racedata/common/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "racedata",
		Short: "Authenticated client for the racing-data API",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(opsCMD(), fetchCMD(), loginCMD())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger shared by all subcommands
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.General.LogLevel, cfg.General.LogFormat), nil
}

func newClient(cfg *config.Config, log *logger.Logger) (*clients.RacingClient, error) {
	return clients.NewRacingClient(clients.Config{
		BaseURL:        cfg.API.BaseURL,
		Email:          cfg.API.Email,
		Password:       cfg.API.Password,
		CustID:         cfg.API.CustID,
		CookieFile:     cfg.API.CookieFile,
		LoginTimeout:   cfg.API.LoginTimeout,
		RequestTimeout: cfg.API.RequestTimeout,
	}, log)
}
