package minigame

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownMiniGame = errors.New("unknown mini-game")

// Known mini-game ids as used by mini_game_id in location settings
const (
	ButtonClickID   = 1
	SlidingPuzzleID = 2
	SokobanBlocksID = 3
	CodeLockID      = 4
)

// Factory builds a mini-game for a location
type Factory func(env Env) (MiniGame, error)

type registration struct {
	name    string
	factory Factory
}

var registry = map[int]registration{
	ButtonClickID:   {name: "Button Click", factory: NewButtonClick},
	SlidingPuzzleID: {name: "Sliding Puzzle", factory: NewSlidingPuzzle},
	SokobanBlocksID: {name: "Sokoban Blocks", factory: NewSokobanBlocks},
	CodeLockID:      {name: "Code Lock", factory: NewCodeLock},
}

// Create builds the mini-game registered under id
func Create(id int, env Env) (MiniGame, error) {
	reg, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownMiniGame, id)
	}

	game, err := reg.factory(env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", reg.name, err)
	}
	return game, nil
}

// Exists reports whether a mini-game is registered under id
func Exists(id int) bool {
	_, ok := registry[id]
	return ok
}

// Name returns the display name of a registered mini-game
func Name(id int) string {
	if reg, ok := registry[id]; ok {
		return reg.name
	}
	return fmt.Sprintf("mini-game %d", id)
}

// IDs returns all registered ids in ascending order
func IDs() []int {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
