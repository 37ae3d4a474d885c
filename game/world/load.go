package world

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/minigame"
)

// Load builds a world from a game directory: every location found on disk is
// added, then the location tree from settings.yml is linked
func Load(cfg *config.Manager, loader assets.Loader, rng *rand.Rand, logger *slog.Logger) (*World, error) {
	settings := cfg.Settings()

	mapBackground, err := loader.Image(config.MapBackgroundImage)
	if err != nil {
		return nil, fmt.Errorf("failed to load map background: %w", err)
	}

	w := New(settings, mapBackground, logger)

	ids, err := cfg.LocationIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		ls, err := cfg.LoadLocation(id)
		if err != nil {
			return nil, err
		}
		if _, err := w.AddLocation(ls, loader, rng); err != nil {
			return nil, err
		}
	}

	if err := w.LinkGraph(settings.LocationTree); err != nil {
		return nil, err
	}
	return w, nil
}

// AddLocation builds a location from its settings and images and adds it to
// the arena. The mini-game, if any, is created here with the location as its owner.
func (w *World) AddLocation(ls *config.LocationSettings, loader assets.Loader, rng *rand.Rand) (*Location, error) {
	if w.linked {
		return nil, ErrAlreadyLinked
	}
	if ls == nil {
		return nil, fmt.Errorf("%w: nil location settings", config.ErrInvalidConfig)
	}
	if _, exists := w.locations[ls.ID]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateLocation, ls.ID)
	}

	background, err := loader.Image(config.LocationImage(ls.ID, "background.png"))
	if err != nil {
		return nil, fmt.Errorf("location %d: %w", ls.ID, err)
	}
	mapIcon, err := loader.Image(config.LocationImage(ls.ID, "map.png"))
	if err != nil {
		return nil, fmt.Errorf("location %d: %w", ls.ID, err)
	}
	gameArea, err := optionalImage(loader, config.LocationImage(ls.ID, "mini_game_area.png"))
	if err != nil {
		return nil, fmt.Errorf("location %d: %w", ls.ID, err)
	}
	introText, err := optionalImage(loader, config.LocationImage(ls.ID, "intro_text.png"))
	if err != nil {
		return nil, fmt.Errorf("location %d: %w", ls.ID, err)
	}

	l := &Location{
		id:            ls.ID,
		settings:      ls,
		geometry:      config.DeriveGeometry(gameArea, mapIcon),
		background:    background,
		mapIcon:       mapIcon,
		introText:     introText,
		showIntroText: introText != nil,
		world:         w,
	}

	if l.geometry.MapButton.Empty() {
		w.logger.Warn("location has no map button and cannot be selected from the map", "location", ls.ID)
	}

	if ls.HasMiniGame() {
		if l.geometry.GameArea.Empty() {
			return nil, fmt.Errorf("%w: location %d: mini_game_area.png is missing or fully transparent", config.ErrInvalidConfig, ls.ID)
		}

		game, err := minigame.Create(*ls.MiniGameID, minigame.Env{
			Owner:    l,
			Settings: ls,
			Assets:   loader,
			Rand:     rng,
		})
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", ls.ID, err)
		}
		l.miniGame = game
	}

	w.locations[ls.ID] = l
	w.logger.Debug("location added", "location", ls.ID, "name", ls.Name, "mini_game", miniGameName(ls))
	return l, nil
}

func optionalImage(loader assets.Loader, path string) (image.Image, error) {
	img, err := loader.Image(path)
	if errors.Is(err, assets.ErrAssetNotFound) {
		return nil, nil
	}
	return img, err
}

func miniGameName(ls *config.LocationSettings) string {
	if !ls.HasMiniGame() {
		return ""
	}
	return minigame.Name(*ls.MiniGameID)
}
