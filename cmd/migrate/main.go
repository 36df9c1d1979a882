package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/helper"
	"hostel/shared/logger"
)

const argLength = 2

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("usage: migrate up|down|step-up|drop|version")
	}

	cfg := config.Get()
	logger.Configure(cfg)

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
