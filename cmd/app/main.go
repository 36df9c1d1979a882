package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/di"
	"hostel/helper"
	"hostel/shared/logger"
)

// @title Hostel Management API
// @version 1.0
// @description Role based hostel, room and user management.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	app := di.InitializeApp()

	bootstrap := cfg.App.Bootstrap
	if err := app.User.EnsureSuperAdmin(context.Background(), bootstrap.Name, bootstrap.Email, bootstrap.Password); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap superadmin")
	}

	app.HTTP.Serve()
}
