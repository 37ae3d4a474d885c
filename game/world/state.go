package world

import "image"

// LocationState is a read-only view of a location
type LocationState struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Unlocked  bool   `json:"unlocked"`
	Visited   bool   `json:"visited"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
	ShowIntro bool   `json:"show_intro"`
	MiniGame  string `json:"mini_game,omitempty"`
	Next      []int  `json:"next"`
	MapButton Rect   `json:"map_button"`
	GameArea  Rect   `json:"game_area"`
}

// Rect is a rectangle in virtual coordinates
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// State is a snapshot of the whole world
type State struct {
	ActiveLocationID int             `json:"active_location_id"`
	ShowMap          bool            `json:"show_map"`
	Done             bool            `json:"done"`
	WindowWidth      int             `json:"window_width"`
	WindowHeight     int             `json:"window_height"`
	Locations        []LocationState `json:"locations"`
}

// Location returns the snapshot of one location
func (s State) Location(id int) (LocationState, bool) {
	for _, l := range s.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return LocationState{}, false
}

// State returns a snapshot of the world
func (w *World) State() State {
	s := State{
		ShowMap:      w.showMap,
		Done:         w.done,
		WindowWidth:  w.windowSize.X,
		WindowHeight: w.windowSize.Y,
	}
	if w.active != nil {
		s.ActiveLocationID = w.active.id
	}

	for _, l := range w.Locations() {
		ls := LocationState{
			ID:        l.id,
			Name:      l.Name(),
			Unlocked:  l.unlocked,
			Visited:   l.visited,
			Completed: l.Completed(),
			Active:    l == w.active,
			ShowIntro: l.showIntroText,
			MiniGame:  miniGameName(l.settings),
			Next:      l.NextLocationIDs(),
			MapButton: rectOf(l.geometry.MapButton),
			GameArea:  rectOf(l.geometry.GameArea),
		}
		if ls.Next == nil {
			ls.Next = []int{}
		}
		s.Locations = append(s.Locations, ls)
	}
	return s
}

func rectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
