package main

import (
	"os"

	"vrent/config"
	"vrent/helper"
	"vrent/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("migration direction (up/down/step-up/drop) is required")
	}

	cfg := config.Get()

	var err error

	switch os.Args[1] {
	case helper.ActionUp:
		err = helper.Up(cfg)
	case helper.ActionDown:
		err = helper.Down(cfg)
	case helper.ActionDrop:
		err = helper.Drop(cfg)
	case helper.ActionStepUp:
		err = helper.StepUp(cfg)
	default:
		log.Fatal().Str("direction", os.Args[1]).Msg("invalid direction, use 'up', 'down', 'drop' or 'step-up'")
	}

	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
