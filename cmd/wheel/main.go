package main

import (
	"prize_wheel/internal/app"

	"github.com/rs/zerolog/log"
)

func main() {
	a := app.NewApp()
	if err := a.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
