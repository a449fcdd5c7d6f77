package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(Te *testing.T, args ...string) (string, error) {
	Te.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(Te *testing.T) {
	out, err := run(Te, "version", "--config", "/does/not/exist.yaml")
	require.NoError(Te, err)
	assert.Contains(Te, out, "kmcrecon version dev")
}

func TestReactionsCmd(Te *testing.T) {
	dir := Te.TempDir()
	rules := "event 1 OH O A 1 0.5 c 1\nevent 1 O OH A 1 0.4 c 1\nevent 2 OH\n"
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "in.ald"), []byte(rules), 0o644))
	metricsFile := filepath.Join(dir, "kmcrecon.prom")
	out, err := run(Te, "reactions", "--rules", filepath.Join(dir, "in.ald"), "--out", filepath.Join(dir, "out"),
		"--seeds", "OH", "--dot=false", "--metrics-file", metricsFile, "--log-level", "error")
	require.NoError(Te, err)
	assert.Contains(Te, out, "2 rules (1 malformed, 0 duplicates)")
	assert.Contains(Te, out, "cycle 1: OH -> O -> OH")
	assert.Contains(Te, out, "malformed rule records skipped: 1")
	_, err = os.Stat(filepath.Join(dir, "out", "reactions.csv"))
	require.NoError(Te, err)
	_, err = os.Stat(filepath.Join(dir, "out", "network.dot"))
	assert.True(Te, os.IsNotExist(err))
	prom, err := os.ReadFile(metricsFile)
	require.NoError(Te, err)
	assert.Contains(Te, string(prom), "kmcrecon_network_cycles 1")
}

func TestFramesCmdConfig(Te *testing.T) {
	dir := Te.TempDir()
	write := func(name, text string) {
		p := filepath.Join(dir, name)
		require.NoError(Te, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(Te, os.WriteFile(p, []byte(text), 0o644))
	}
	write("species.yaml", "templates_dir: mol\nspecies:\n  3: Al\n")
	write("mol/Al.xyz", "1\n\nAl 0 0 0\n")
	write("dump.ald", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n1\nITEM: ATOMS id i1 x y z\n1 3 1 1 1\n")
	write("kmcrecon.yaml", "frames:\n  dump: "+filepath.Join(dir, "dump.ald")+"\n  catalog: "+filepath.Join(dir, "species.yaml")+
		"\n  lattice: [2, 0, 0, 0, 2, 0, 0, 0, 2]\n")
	out, err := run(Te, "frames", "--config", filepath.Join(dir, "kmcrecon.yaml"), "--out", filepath.Join(dir, "frames"))
	require.NoError(Te, err)
	assert.Contains(Te, out, "1 frames (1 atoms)")
	b, err := os.ReadFile(filepath.Join(dir, "frames", "frame_000000.cif"))
	require.NoError(Te, err)
	assert.Contains(Te, string(b), "_cell_length_a")

	_, err = run(Te, "frames", "--config", filepath.Join(dir, "kmcrecon.yaml"), "--time", "4:1")
	require.Error(Te, err)
}

func TestFramesCmdSkipReport(Te *testing.T) {
	dir := Te.TempDir()
	write := func(name, text string) {
		p := filepath.Join(dir, name)
		require.NoError(Te, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(Te, os.WriteFile(p, []byte(text), 0o644))
	}
	write("species.yaml", "templates_dir: mol\nspecies:\n  3: Al\n")
	write("mol/Al.xyz", "1\n\nAl 0 0 0\n")
	write("dump.ald", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n2\nITEM: ATOMS id i1 x y z\n1 3 1 1 1\n2 7 0 1 1\n")
	out, err := run(Te, "frames", "--dump", filepath.Join(dir, "dump.ald"), "--catalog", filepath.Join(dir, "species.yaml"),
		"--out", filepath.Join(dir, "frames"), "--unknown-species", "skip", "--lattice", "2,0,0,0,2,0,0,0,2", "--log-level", "error")
	require.NoError(Te, err)
	assert.Contains(Te, out, "1 frames (1 atoms)")
	assert.Contains(Te, out, "sites skipped for unknown species")
	assert.Contains(Te, out, "species 7: 1 sites")
}
