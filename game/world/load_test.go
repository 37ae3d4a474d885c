package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/location-quest/game/assets"
	"github.com/wricardo/location-quest/game/config"
	"github.com/wricardo/location-quest/game/demo"
)

func TestLoadDemo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, demo.Write(dir))

	cfg, err := config.NewManager(dir)
	require.NoError(t, err)
	loader, err := assets.NewFileLoader(dir)
	require.NoError(t, err)

	w, err := Load(cfg, loader, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)

	require.Len(t, w.Locations(), 4)
	assert.Equal(t, 1, w.Active().ID())
	assert.Equal(t, []int{4}, mustLocation(t, w, 2).NextLocationIDs())
	assert.True(t, mustLocation(t, w, 2).ShowingIntro())
	assert.False(t, mustLocation(t, w, 1).ShowingIntro())

	for _, l := range w.Locations() {
		assert.NotNil(t, l.MiniGame(), "location %d", l.ID())
		assert.Equal(t, demo.GameArea, l.Geometry().GameArea)
		assert.False(t, l.Geometry().MapButton.Empty())
	}

	assert.Equal(t, config.VirtualBounds(), w.Draw().Bounds())
}

func TestLoadMissingMapBackground(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, demo.Write(dir))

	cfg, err := config.NewManager(dir)
	require.NoError(t, err)

	_, err = Load(cfg, assets.MemoryLoader{}, nil, nil)
	assert.ErrorIs(t, err, assets.ErrAssetNotFound)
}
