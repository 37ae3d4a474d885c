// Package world composes locations and their mini-games into a playable game.
//
// A World owns every Location in an arena keyed by id. Locations are built
// first and linked into the location tree in a second pass, so no location
// ever holds a reference to another one. Completing a mini-game unlocks the
// owning location's direct successors, which the player then reaches through
// the map overview.
//
// The package is toolkit independent: it consumes input.Event values and
// produces image.Image frames in the 1920x1080 virtual space. The desktop
// frontend and the headless service both drive it the same way.
package world
