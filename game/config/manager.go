package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	settingsFile      = "settings.yml"
	localSettingsFile = "local_settings.yml"
	locationPrefix    = "location_"
)

// Manager handles settings loading and caching for one game directory
type Manager struct {
	gameDir   string
	settings  *Settings
	locations map[int]*LocationSettings
	mu        sync.RWMutex
}

// NewManager creates a settings manager and loads the global settings
func NewManager(gameDir string) (*Manager, error) {
	// Ensure game directory exists
	if _, err := os.Stat(gameDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("game directory does not exist: %s", gameDir)
	}

	m := &Manager{
		gameDir:   gameDir,
		locations: make(map[int]*LocationSettings),
	}

	settings, err := m.loadSettings()
	if err != nil {
		return nil, err
	}
	m.settings = settings

	return m, nil
}

// GameDir returns the directory the manager reads from
func (m *Manager) GameDir() string {
	return m.gameDir
}

// Settings returns the global settings
func (m *Manager) Settings() *Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// LocationIDs lists the ids of every locations/location_NNN directory, sorted ascending
func (m *Manager) LocationIDs() ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(m.gameDir, "locations"))
	if err != nil {
		return nil, fmt.Errorf("failed to read locations directory: %w", err)
	}

	var ids []int
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), locationPrefix) {
			continue
		}

		id, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), locationPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: bad location directory name %q", ErrInvalidConfig, entry.Name())
		}
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids, nil
}

// LoadLocation loads the settings of one location
func (m *Manager) LoadLocation(id int) (*LocationSettings, error) {
	m.mu.RLock()
	// Check cache first
	if loc, exists := m.locations[id]; exists {
		m.mu.RUnlock()
		return loc, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if loc, exists := m.locations[id]; exists {
		return loc, nil
	}

	path := filepath.Join(m.gameDir, LocationDir(id), settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read location settings: %w", err)
	}

	loc, err := ParseLocationSettings(id, data)
	if err != nil {
		return nil, err
	}

	m.locations[id] = loc
	return loc, nil
}

// RefreshCache drops cached location settings and reloads the global settings from disk
func (m *Manager) RefreshCache() error {
	settings, err := m.loadSettings()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	m.locations = make(map[int]*LocationSettings)
	return nil
}

// loadSettings reads settings.yml, merges local_settings.yml over it and validates the result
func (m *Manager) loadSettings() (*Settings, error) {
	base, err := readDocument(filepath.Join(m.gameDir, settingsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, settingsFile)
		}
		return nil, err
	}

	overlay, err := readDocument(filepath.Join(m.gameDir, localSettingsFile))
	switch {
	case err == nil:
		mergeNodes(base, overlay)
	case errors.Is(err, os.ErrNotExist):
		// local settings are optional
	default:
		return nil, err
	}

	var settings Settings
	if err := base.Decode(&settings); err != nil {
		return nil, fmt.Errorf("%w: failed to parse settings: %v", ErrInvalidConfig, err)
	}
	settings.applyDefaults()

	if err := ValidateSettings(&settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &settings, nil
}

// ParseLocationSettings decodes a location settings document
func ParseLocationSettings(id int, data []byte) (*LocationSettings, error) {
	loc := &LocationSettings{ID: id}
	if err := yaml.Unmarshal(data, loc); err != nil {
		return nil, fmt.Errorf("%w: location %d: failed to parse settings: %v", ErrInvalidConfig, id, err)
	}
	loc.applyDefaults()

	if err := ValidateLocationSettings(loc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// readDocument parses a YAML file into its root mapping node
func readDocument(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	// An empty file decodes to a zero node; treat it as an empty mapping
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: top level must be a mapping", ErrInvalidConfig, filepath.Base(path))
	}
	return root, nil
}

// mergeNodes merges overlay into base. Mappings merge key by key; any other value replaces the base value.
func mergeNodes(base, overlay *yaml.Node) {
	for i := 0; i+1 < len(overlay.Content); i += 2 {
		key, value := overlay.Content[i], overlay.Content[i+1]

		idx := -1
		for j := 0; j+1 < len(base.Content); j += 2 {
			if base.Content[j].Value == key.Value {
				idx = j
				break
			}
		}

		switch {
		case idx < 0:
			base.Content = append(base.Content, key, value)
		case base.Content[idx+1].Kind == yaml.MappingNode && value.Kind == yaml.MappingNode:
			mergeNodes(base.Content[idx+1], value)
		default:
			base.Content[idx+1] = value
		}
	}
}
