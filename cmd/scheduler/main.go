package main

import (
	"innkeep/config"
	"innkeep/di"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	scheduler, err := di.InitializeScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	if err := scheduler.Run(); err != nil {
		log.Fatal().Err(err).Msg("Scheduler stopped with error")
	}
}
