package main

import (
	"fmt"
	"os"

	"github.com/apexline/racedata/common/config"
	"github.com/apexline/racedata/common/logger"
	"github.com/apexline/racedata/common/mockapi"
	"github.com/apexline/racedata/common/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("RACEDATA_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.General.LogLevel, cfg.General.LogFormat)

	api := mockapi.New(log)
	api.Seed()
	log.Info("seeded mock origin", "account", "dev@example.com")

	srv := server.New("mockapi", cfg.MockAPI.Port, api.Handler(), log)
	if err := srv.Start(); err != nil {
		log.Error("mockapi stopped", "error", err)
		os.Exit(1)
	}
}
