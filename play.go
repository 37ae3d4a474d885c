//go:build !headless

package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/location-quest/desktop"
	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/world"
)

// runPlay loads the game directory and opens the window
func runPlay(ctx context.Context, cmd *cli.Command) error {
	log, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	configs, err := config.NewManager(cmd.String("game-dir"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	loader, err := assets.NewFileLoader(configs.GameDir())
	if err != nil {
		return fmt.Errorf("failed to create asset loader: %w", err)
	}

	w, err := world.Load(configs, loader, rand.New(rand.NewSource(time.Now().UnixNano())), log)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}

	settings := configs.Settings()
	return desktop.Run(w, desktop.Options{
		Title:      settings.Title,
		Width:      settings.Screen.Width,
		Height:     settings.Screen.Height,
		Fullscreen: settings.Screen.Fullscreen || cmd.Bool("fullscreen"),
		TPS:        settings.TickRate,
	}, log)
}
