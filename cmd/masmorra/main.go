// Package main provides the masmorra binary: a terminal dungeon crawler
// driven by YAML content catalogs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/config"
	"github.com/procha/masmorra/internal/content"
	"github.com/procha/masmorra/internal/engine"
	"github.com/procha/masmorra/internal/frontend/term"
	"github.com/procha/masmorra/internal/game/rng"
	"github.com/procha/masmorra/internal/observability"
	"github.com/procha/masmorra/internal/server"
	"github.com/procha/masmorra/internal/storage/save"
	"github.com/procha/masmorra/internal/updater"
	"github.com/procha/masmorra/internal/version"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/default.yaml", "path to configuration file")
	contentDir := flag.String("content", "", "override for the content catalog directory")
	savesDir := flag.String("saves", "", "override for the save directory")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("masmorra " + version.Version)
		return
	}

	ctx := context.Background()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Paths.Content = *contentDir
	}
	if *savesDir != "" {
		cfg.Paths.Saves = *savesDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting masmorra",
		zap.String("version", version.Version),
		zap.String("content", cfg.Paths.Content),
		zap.String("saves", cfg.Paths.Saves),
	)

	// Load content catalogs
	contentStart := time.Now()
	reg, err := content.Load(cfg.Paths.Content)
	if err != nil {
		logger.Error("loading content", zap.Error(err))
		fmt.Fprintf(os.Stderr, "erro ao carregar o conteudo do jogo: %v\n", err)
		os.Exit(1)
	}
	logger.Info("content loaded",
		zap.Int("classes", len(reg.Classes)),
		zap.Int("inimigos", len(reg.Enemies)),
		zap.Int("eventos", len(reg.Events)),
		zap.Int("tramas", len(reg.Plots)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	store, err := save.NewStore(cfg.Paths.Saves, logger)
	if err != nil {
		logger.Error("opening save store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "erro ao preparar o diretorio de saves: %v\n", err)
		os.Exit(1)
	}

	src := newSource(cfg.Game.Seed, logger)
	ui := term.New(os.Stdin, os.Stdout, !*noColor)
	machine := engine.New(reg, ui, store, src, cfg.Game, logger)

	checker := updater.NewChecker(cfg.Updater, cfg.Paths.Saves, logger)

	// The check runs in the background; the result crosses into the game
	// goroutine through this channel and the menu prints it. Only the
	// game goroutine ever writes to the terminal.
	notices := make(chan *updater.Notice, 1)
	machine.NotifyUpdates(notices)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("updater", &server.FuncService{
		StartFn: func() error {
			if notice := checker.Check(ctx); notice != nil {
				notices <- notice
			}
			return nil
		},
		StopFn: func() {},
	})
	gameCtx, gameCancel := context.WithCancel(ctx)
	defer gameCancel()
	gameDone := make(chan struct{})
	lifecycle.AddPrimary("game", &server.FuncService{
		StartFn: func() error {
			defer close(gameDone)
			err := machine.Run(gameCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
		StopFn: gameCancel,
	})
	logger.Info("masmorra initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("game error", zap.Error(err))
	}

	// An interrupt tears the loop down before the machine can say goodbye;
	// the player still gets one.
	select {
	case <-gameDone:
	default:
		ui.Print("", "Ate a proxima, aventureiro!")
	}
}

// loadConfig falls back to built-in defaults when the default config file
// is absent, so the game runs out of the box.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && path == "configs/default.yaml" {
		return config.Default(), nil
	}
	return config.Config{}, err
}

// newSource seeds the game randomness, deterministically when configured.
func newSource(seed int64, logger *zap.Logger) rng.Source {
	if seed != 0 {
		logger.Info("using fixed seed", zap.Int64("seed", seed))
		return rng.New(seed)
	}
	return rng.NewRandom()
}
