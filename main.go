package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/keshimasu/assets"
	"github.com/robalobadob/keshimasu/internal/catalog"
	"github.com/robalobadob/keshimasu/internal/config"
	"github.com/robalobadob/keshimasu/internal/database"
	"github.com/robalobadob/keshimasu/internal/game"
	"github.com/robalobadob/keshimasu/internal/httpserver"
	"github.com/robalobadob/keshimasu/internal/store"
	"github.com/robalobadob/keshimasu/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg)
	if cfg.DevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := database.MigrateDefault(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedPuzzles {
		seeds, err := assets.Seeds()
		if err != nil {
			log.Fatal().Err(err).Msg("read seed puzzles")
		}
		if _, err := catalog.NewStore(db).Seed(ctx, seeds); err != nil {
			log.Fatal().Err(err).Msg("seed puzzles")
		}
	}

	lex, err := words.Load(map[game.Mode]string{
		game.ModeCountry: cfg.CountryWords,
		game.ModeCapital: cfg.CapitalWords,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	sessions := store.NewMemoryStore()
	go sessions.RunSweeper(ctx, time.Minute, cfg.SessionTTL, func(n int) {
		log.Debug().Int("sessions", n).Msg("expired sessions dropped")
	})

	srv := httpserver.New(cfg, db, sessions, lex)
	log.Info().Str("port", cfg.Port).Msg("starting keshimasu server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
