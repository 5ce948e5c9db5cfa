// main.go
//
// Entry point for the arcade server.
//   - Loads .env and configures zerolog.
//   - Opens and migrates the SQLite score database.
//   - Opens the local checkpoint store when CHECKPOINT_APP is set.
//   - Loads game tuning from GAME_TUNING, if any.
//   - Serves HTTP until SIGINT/SIGTERM, then closes every live match.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lacey1998/FishMIner-Game/assets"
	"github.com/lacey1998/FishMIner-Game/internal/checkpoint"
	"github.com/lacey1998/FishMIner-Game/internal/config"
	"github.com/lacey1998/FishMIner-Game/internal/game"
	"github.com/lacey1998/FishMIner-Game/internal/httpserver"
	"github.com/lacey1998/FishMIner-Game/internal/scores"
	"github.com/lacey1998/FishMIner-Game/internal/store"
)

func main() {
	_ = godotenv.Load()
	env := config.FromEnv()
	if lvl, err := zerolog.ParseLevel(env.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	tuning, err := config.LoadTuning(env.TuningPath, game.DefaultConfig())
	if err != nil {
		log.Fatal().Err(err).Str("path", env.TuningPath).Msg("invalid game tuning")
	}

	db, err := scores.Open(env.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", env.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	if err := scores.Migrate(context.Background(), db, assets.Migrations); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	var cps *checkpoint.Store
	if env.CheckpointApp != "" {
		cps, err = checkpoint.Open(env.CheckpointApp, log.Logger)
		if err != nil {
			// scores still work without local snapshots
			log.Warn().Err(err).Msg("checkpoints disabled")
		}
	}

	matches := store.NewMemoryStore()
	srv := httpserver.New(httpserver.Deps{
		Matches:     matches,
		Scores:      scores.NewSQLStore(db),
		Checkpoints: cps,
		Game:        tuning,
		Env:         env,
	})

	httpSrv := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", env.Port).Msg("starting fishminer server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
	matches.Close()
	cps.Close()
}
