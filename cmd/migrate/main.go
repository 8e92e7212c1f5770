package main

import (
	"os"

	"innkeep/config"
	"innkeep/helper"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up or drop")
	}

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
