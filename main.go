package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zyreoo/queens-server-host/internal/config"
	"github.com/zyreoo/queens-server-host/internal/httpserver"
	"github.com/zyreoo/queens-server-host/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	mem := store.NewMemory()
	go mem.Run(context.Background(), cfg.ReaperInterval, cfg.RoomIdleTimeout)

	srv := httpserver.New(mem, cfg)
	log.Info().Str("port", cfg.Port).Msg("starting queens-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
