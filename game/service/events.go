package service

import (
	"fmt"
	"time"

	"github.com/wricardo/location-quest/game/world"
)

// diffStates derives progression events from two snapshots of the same world
func diffStates(before, after world.State, now time.Time) []GameEvent {
	events := []GameEvent{}

	for _, l := range after.Locations {
		prev, ok := before.Location(l.ID)
		if !ok {
			continue
		}

		if l.Completed && !prev.Completed {
			events = append(events, GameEvent{
				Type:       EventMiniGameCompleted,
				Message:    fmt.Sprintf("Solved the %s in %s", l.MiniGame, l.Name),
				LocationID: l.ID,
				Timestamp:  now,
			})
		}
		if l.Unlocked && !prev.Unlocked {
			events = append(events, GameEvent{
				Type:       EventLocationUnlocked,
				Message:    fmt.Sprintf("%s is now reachable from the map", l.Name),
				LocationID: l.ID,
				Timestamp:  now,
			})
		}
		if prev.ShowIntro && !l.ShowIntro {
			events = append(events, GameEvent{
				Type:       EventIntroDismissed,
				Message:    fmt.Sprintf("Dismissed the introduction of %s", l.Name),
				LocationID: l.ID,
				Timestamp:  now,
			})
		}
	}

	if after.ActiveLocationID != before.ActiveLocationID {
		name := ""
		if l, ok := after.Location(after.ActiveLocationID); ok {
			name = l.Name
		}
		events = append(events, GameEvent{
			Type:       EventLocationEntered,
			Message:    fmt.Sprintf("Entered %s", name),
			LocationID: after.ActiveLocationID,
			Timestamp:  now,
		})
	}

	switch {
	case after.ShowMap && !before.ShowMap:
		events = append(events, GameEvent{Type: EventMapOpened, Message: "Opened the map", Timestamp: now})
	case !after.ShowMap && before.ShowMap:
		events = append(events, GameEvent{Type: EventMapClosed, Message: "Closed the map", Timestamp: now})
	}

	if after.Done && !before.Done {
		events = append(events, GameEvent{Type: EventQuit, Message: "Quit the game", Timestamp: now})
	}

	return events
}
