// Package minigame provides the puzzle mini-games hosted by locations.
//
// The package implements:
//   - The MiniGame contract every puzzle satisfies
//   - Base, the shared state: the 900x900 canvas, the done flag and the owner back-reference
//   - CompleteGame, the single place that unlocks the owner's successor locations
//   - A static registry mapping mini_game_id to a factory
//   - Four variants: ButtonClick (1), SlidingPuzzle (2), SokobanBlocks (3) and CodeLock (4)
//
// Interaction Model:
//
// Variants are click driven. Each keeps a set of clickable buttons derived
// from its board state; after every state-changing click the set is rebuilt
// from scratch and completion is checked immediately. Mouse events arrive in
// screen coordinates and are mapped into canvas space through the owner before
// hit-testing. Once done, a variant exposes no buttons and draws a fixed
// completed state.
//
// Usage:
//
//	game, err := minigame.Create(*loc.MiniGameID, minigame.Env{
//		Owner:    location,
//		Settings: loc,
//		Assets:   loader,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game.HandleMouseEvent(input.MouseUpEvent(640, 360, input.ButtonLeft))
//	frame := game.Draw()
package minigame
