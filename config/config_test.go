package config

import (
	"os"
	"path/filepath"
	"testing"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(Te *testing.T, text string) string {
	Te.Helper()
	p := filepath.Join(Te.TempDir(), "kmcrecon.yaml")
	require.NoError(Te, os.WriteFile(p, []byte(text), 0o644))
	return p
}

func TestDefaults(Te *testing.T) {
	c, err := Load("")
	require.NoError(Te, err)
	assert.Equal(Te, "cif", c.Frames.Format)
	assert.Equal(Te, dump.DefaultMarker, c.Frames.Marker)
	assert.Equal(Te, []string{"OH", "O"}, c.Reactions.Seeds)
	assert.Equal(Te, 10, c.Reactions.MaxDepth)
	lat, err := c.Lattice()
	require.NoError(Te, err)
	assert.InDelta(Te, 65.08907438726766, lat.Lengths()[2], 1e-9)
	w, err := c.Window()
	require.NoError(Te, err)
	assert.Equal(Te, dump.All(), w)
	s := c.Schema()
	assert.Equal(Te, 6, s.Layouts[1].Energy)
	assert.Equal(Te, 8, s.Layouts[3].Energy)
}

func TestLoadFile(Te *testing.T) {
	p := writeConfig(Te, `
log:
  level: debug
frames:
  time: "100:500:10"
  format: xyz
  compress: zst
  unknown_species: skip
  lattice: [10, 0, 0, 0, 10, 0, 0, 0, 10]
reactions:
  seeds: [OH]
  max_depth: 6
  schema:
    allow_negative: true
`)
	c, err := Load(p)
	require.NoError(Te, err)
	assert.Equal(Te, "debug", c.Log.Level)
	w, err := c.Window()
	require.NoError(Te, err)
	assert.Equal(Te, dump.Window{Start: 100, End: 500, Stride: 10}, w)
	lat, err := c.Lattice()
	require.NoError(Te, err)
	assert.InDelta(Te, 1000, lat.Volume(), 1e-9)
	assert.Equal(Te, []string{"OH"}, c.Reactions.Seeds)
	assert.True(Te, c.Schema().AllowNegative)
	p2, err := kmc.ParsePolicy(c.Frames.UnknownSpecies)
	require.NoError(Te, err)
	assert.Equal(Te, kmc.SkipWarn, p2)
}

func TestEnvOverride(Te *testing.T) {
	Te.Setenv("KMCRECON_FRAMES_FORMAT", "xyz")
	Te.Setenv("KMCRECON_REACTIONS_MAX_DEPTH", "4")
	c, err := Load("")
	require.NoError(Te, err)
	assert.Equal(Te, "xyz", c.Frames.Format)
	assert.Equal(Te, 4, c.Reactions.MaxDepth)
}

func TestInvalid(Te *testing.T) {
	cases := map[string]string{
		"level":    "log:\n  level: loud\n",
		"window":   "frames:\n  time: \"5:1\"\n",
		"format":   "frames:\n  format: pdb\n",
		"codec":    "frames:\n  compress: rar\n",
		"lattice":  "frames:\n  lattice: [1, 0, 0]\n",
		"policy":   "frames:\n  unknown_species: ignore\n",
		"workers":  "frames:\n  workers: 0\n",
		"seeds":    "reactions:\n  seeds: []\n",
		"depth":    "reactions:\n  max_depth: 1\n",
		"overlaps": "reactions:\n  schema:\n    unary_energy: 7\n",
	}
	for name, text := range cases {
		_, err := Load(writeConfig(Te, text))
		assert.Error(Te, err, name)
	}
	_, err := Load(filepath.Join(Te.TempDir(), "missing.yaml"))
	require.Error(Te, err)
}
