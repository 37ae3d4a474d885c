// Package validate checks a game directory before it is played. It checks:
//   - settings.yml (and local_settings.yml) parse and are consistent
//   - the map background exists
//   - every location's settings, images and mini-game build
//   - the location tree only references existing locations
//   - connectivity: every location is reachable from the initial location
package validate

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"strings"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/minigame"
	"github.com/wricardo/location-quest/game/world"
)

// Result captures the outcome of one check. If Valid is true, Messages
// contains informational lines; otherwise it holds the errors that were found.
type Result struct {
	Name     string
	Valid    bool
	Messages []string
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *Result) info(format string, args ...interface{}) {
	r.Messages = append(r.Messages, "✓ "+fmt.Sprintf(format, args...))
}

// Report is the outcome of validating a game directory
type Report struct {
	GameDir string
	Results []Result
}

// Valid reports whether every check passed
func (r Report) Valid() bool {
	for _, res := range r.Results {
		if !res.Valid {
			return false
		}
	}
	return true
}

// GameDir validates the game directory at dir. Problems are reported per
// location instead of stopping at the first one.
func GameDir(dir string) Report {
	report := Report{GameDir: dir}

	settingsResult := Result{Name: "settings", Valid: true}
	cfg, err := config.NewManager(dir)
	if err != nil {
		settingsResult.fail("%v", err)
		report.Results = append(report.Results, settingsResult)
		return report
	}
	settings := cfg.Settings()
	settingsResult.info("Title %q, window %dx%d, map key %q", settings.Title, settings.Screen.Width, settings.Screen.Height, settings.MapKey)

	loader, err := assets.NewFileLoader(dir)
	if err != nil {
		settingsResult.fail("%v", err)
		report.Results = append(report.Results, settingsResult)
		return report
	}
	if !loader.Exists(config.MapBackgroundImage) {
		settingsResult.fail("Missing %s", config.MapBackgroundImage)
	}
	report.Results = append(report.Results, settingsResult)

	ids, err := cfg.LocationIDs()
	if err != nil {
		report.Results = append(report.Results, Result{Name: "locations", Messages: []string{err.Error()}})
		return report
	}

	// a scratch world builds each location exactly as the game would
	scratch := world.New(settings, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rng := rand.New(rand.NewSource(1))

	loaded := make(map[int]bool, len(ids))
	for _, id := range ids {
		res := Result{Name: fmt.Sprintf("location %d", id), Valid: true}

		ls, err := cfg.LoadLocation(id)
		if err != nil {
			res.fail("%v", err)
			report.Results = append(report.Results, res)
			continue
		}

		l, err := scratch.AddLocation(ls, loader, rng)
		if err != nil {
			res.fail("%v", err)
			report.Results = append(report.Results, res)
			continue
		}

		loaded[id] = true
		res.Name = fmt.Sprintf("location %d (%s)", id, ls.Name)
		if ls.HasMiniGame() {
			res.info("Mini-game: %s", minigame.Name(*ls.MiniGameID))
		} else {
			res.info("No mini-game")
		}
		if l.Geometry().MapButton.Empty() {
			res.fail("map.png is fully transparent, the location cannot be selected from the map")
		}
		report.Results = append(report.Results, res)
	}

	report.Results = append(report.Results, checkTree(settings, ids, loaded))
	return report
}

// checkTree validates the location tree and flood fills it from the initial location
func checkTree(settings *config.Settings, ids []int, loaded map[int]bool) Result {
	res := Result{Name: "location tree", Valid: true}

	exists := make(map[int]bool, len(ids))
	for _, id := range ids {
		exists[id] = true
	}

	if !exists[settings.InitialLocationID] {
		res.fail("Initial location %d does not exist", settings.InitialLocationID)
		return res
	}

	for _, id := range sortedKeys(settings.LocationTree) {
		if !exists[id] {
			res.fail("location_tree references missing location %d", id)
		}
		for _, n := range settings.LocationTree[id] {
			if !exists[n] {
				res.fail("location %d leads to missing location %d", id, n)
			}
		}
	}

	// Breadth-first walk from the initial location
	depth := map[int]int{settings.InitialLocationID: 0}
	queue := []int{settings.InitialLocationID}
	maxDepth := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range settings.LocationTree[current] {
			if _, seen := depth[n]; seen || !exists[n] {
				continue
			}
			depth[n] = depth[current] + 1
			if depth[n] > maxDepth {
				maxDepth = depth[n]
			}
			queue = append(queue, n)
		}
	}

	var unreachable []string
	for _, id := range ids {
		if _, ok := depth[id]; !ok {
			unreachable = append(unreachable, fmt.Sprintf("Location %d", id))
		}
	}
	if len(unreachable) > 0 {
		res.fail("Connectivity failure: %d/%d locations unreachable from location %d", len(unreachable), len(ids), settings.InitialLocationID)
		for _, u := range unreachable {
			res.fail("Unreachable: %s", u)
		}
		return res
	}

	var leaves []string
	for _, id := range ids {
		if len(settings.LocationTree[id]) == 0 {
			leaves = append(leaves, fmt.Sprint(id))
		}
	}
	res.info("Connectivity: all %d locations reachable from location %d", len(ids), settings.InitialLocationID)
	res.info("Longest unlock chain: %d steps, final locations: %s", maxDepth, strings.Join(leaves, ", "))

	if len(loaded) < len(ids) {
		res.fail("%d location(s) failed to load", len(ids)-len(loaded))
	}
	return res
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Print writes a concise report, one section per check
func Print(w io.Writer, report Report) {
	fmt.Fprintf(w, "Validating %s\n", report.GameDir)

	for _, res := range report.Results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), res.Name)

		if res.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, msg := range res.Messages {
				fmt.Fprintln(w, "  "+msg)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			for _, msg := range res.Messages {
				if !strings.HasPrefix(msg, "✓") {
					fmt.Fprintln(w, "  ❌ "+msg)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if report.Valid() {
		fmt.Fprintln(w, "✅ Game directory is valid!")
	} else {
		fmt.Fprintln(w, "❌ Game directory has errors")
	}
}
