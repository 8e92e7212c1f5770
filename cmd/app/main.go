package main

import (
	"innkeep/config"
	"innkeep/di"
	"innkeep/helper"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Innkeep API
// @version 1.0
// @description Small-hotel operations: availability, bookings, OTA calendar sync and housekeeping tasks.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	http := di.InitializeService()
	http.Serve()
}
