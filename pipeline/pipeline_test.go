package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/config"
	"github.com/aldkmc/kmcrecon/dump"
	"github.com/aldkmc/kmcrecon/metrics"
	"github.com/aldkmc/kmcrecon/reaction"
	"github.com/aldkmc/kmcrecon/rxexport"
	v3 "github.com/aldkmc/kmcrecon/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lattice dump with nframes frames of two sites, species 1 and code.
func latticeDump(nframes, code int) string {
	var b strings.Builder
	for t := 0; t < nframes; t++ {
		fmt.Fprintf(&b, "ITEM: TIMESTEP\n%d\nITEM: NUMBER OF ATOMS\n2\n", t)
		b.WriteString("ITEM: ATOMS id i1 x y z\n")
		fmt.Fprintf(&b, "1 1 0 0 %d\n2 %d 1 0 0\n", t, code)
	}
	return b.String()
}

type memSink struct {
	mu    sync.Mutex
	dests []string
	atoms int
}

func (M *memSink) Write(st *kmc.Structure, dest string) error {
	M.mu.Lock()
	defer M.mu.Unlock()
	M.dests = append(M.dests, dest)
	M.atoms += st.Len()
	return nil
}

func assembler(Te *testing.T, p kmc.Policy) *kmc.Assembler {
	Te.Helper()
	lat, err := kmc.NewLattice([9]float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	require.NoError(Te, err)
	cat := kmc.NewCatalog(p)
	oh, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 0.97})
	t, err := kmc.NewTemplate("OH", []*kmc.Atom{{Symbol: "O"}, {Symbol: "H"}}, oh, 0)
	require.NoError(Te, err)
	require.NoError(Te, cat.Add(1, t))
	al, _ := v3.NewMatrix([]float64{0, 0, 0})
	t, err = kmc.NewTemplate("Al", []*kmc.Atom{{Symbol: "Al"}}, al, 0)
	require.NoError(Te, err)
	require.NoError(Te, cat.Add(2, t))
	asm, err := kmc.NewAssembler(lat, cat)
	require.NoError(Te, err)
	return asm
}

func TestReconstruct(Te *testing.T) {
	for _, workers := range []int{1, 4} {
		sink := &memSink{}
		m := metrics.New()
		S, err := Reconstruct(context.Background(), Options{
			Source:    dump.NewParser(strings.NewReader(latticeDump(6, 2)), "mem", dump.Window{Start: 1, End: dump.Unbounded, Stride: 2}),
			Assembler: assembler(Te, kmc.FailFast),
			Sink:      sink,
			Workers:   workers,
			Metrics:   m,
		})
		require.NoError(Te, err)
		assert.Equal(Te, 3, S.Frames, "workers %d", workers)
		assert.Equal(Te, 6, S.Sites)
		assert.Equal(Te, 9, S.Atoms)
		assert.Equal(Te, 1, S.First)
		assert.Equal(Te, 5, S.Last)
		sort.Strings(sink.dests)
		assert.Equal(Te, []string{"frame_000001", "frame_000003", "frame_000005"}, sink.dests)
		assert.Equal(Te, 3.0, testutil.ToFloat64(m.FramesWritten))
	}
}

func TestReconstructUnknownSpecies(Te *testing.T) {
	sink := &memSink{}
	_, err := Reconstruct(context.Background(), Options{
		Source:    dump.NewParser(strings.NewReader(latticeDump(3, 7)), "mem", dump.All()),
		Assembler: assembler(Te, kmc.FailFast),
		Sink:      sink,
	})
	var u *kmc.UnknownSpeciesError
	require.ErrorAs(Te, err, &u)
	assert.Equal(Te, 7, u.Code)
	assert.Empty(Te, sink.dests)

	sink = &memSink{}
	S, err := Reconstruct(context.Background(), Options{
		Source:    dump.NewParser(strings.NewReader(latticeDump(3, 7)), "mem", dump.All()),
		Assembler: assembler(Te, kmc.SkipWarn),
		Sink:      sink,
		Workers:   2,
	})
	require.NoError(Te, err)
	assert.Equal(Te, 3, S.Skipped)
	assert.Equal(Te, 6, sink.atoms)
}

func TestReconstructTruncated(Te *testing.T) {
	text := latticeDump(3, 2)
	text = text[:strings.LastIndex(text, "2 2 1 0 0")]
	sink := &memSink{}
	S, err := Reconstruct(context.Background(), Options{
		Source:    dump.NewParser(strings.NewReader(text), "mem", dump.All()),
		Assembler: assembler(Te, kmc.FailFast),
		Sink:      sink,
	})
	var tr *kmc.TruncatedFrameError
	require.ErrorAs(Te, err, &tr)
	assert.Equal(Te, 2, tr.Time)
	//the frames before stay written
	assert.Equal(Te, 2, S.Frames)
	assert.Len(Te, sink.dests, 2)
}

func TestReconstructCancel(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Reconstruct(ctx, Options{
		Source:    dump.NewParser(strings.NewReader(latticeDump(3, 2)), "mem", dump.All()),
		Assembler: assembler(Te, kmc.FailFast),
		Sink:      &memSink{},
	})
	require.True(Te, errors.Is(err, context.Canceled))
	_, err = Reconstruct(ctx, Options{})
	require.Error(Te, err)
}

func writeFile(Te *testing.T, path, text string) {
	Te.Helper()
	require.NoError(Te, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(Te, os.WriteFile(path, []byte(text), 0o644))
}

func TestRunFrames(Te *testing.T) {
	dir := Te.TempDir()
	writeFile(Te, filepath.Join(dir, "species.yaml"), "templates_dir: mol\nspecies:\n  1: OH\n  2: Al\n")
	writeFile(Te, filepath.Join(dir, "mol", "OH.xyz"), "2\nhydroxyl\nO 0 0 0\nH 0 0 0.97\n")
	writeFile(Te, filepath.Join(dir, "mol", "Al.xyz"), "1\n\nAl 0 0 0\n")
	writeFile(Te, filepath.Join(dir, "dump.ald"), latticeDump(4, 2))
	c, err := config.Load("")
	require.NoError(Te, err)
	c.Frames.Dump = filepath.Join(dir, "dump.ald")
	c.Frames.Catalog = filepath.Join(dir, "species.yaml")
	c.Frames.Out = filepath.Join(dir, "frames")
	c.Frames.Time = "1:2"
	c.Frames.Format = "xyz"
	c.Frames.Compress = "gz"
	c.Frames.UnknownSpecies = "skip"
	rep := kmc.NewReport()
	S, err := RunFrames(context.Background(), c, nil, nil, rep)
	require.NoError(Te, err)
	assert.Equal(Te, 2, S.Frames)
	assert.Same(Te, rep, S.Report)
	for _, name := range []string{"frame_000001.xyz.gz", "frame_000002.xyz.gz"} {
		_, err := os.Stat(filepath.Join(dir, "frames", name))
		assert.NoError(Te, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "frames", "frame_000000.xyz.gz"))
	assert.True(Te, os.IsNotExist(err))
	assert.True(Te, rep.Empty())

	writeFile(Te, filepath.Join(dir, "unknown.ald"), latticeDump(4, 7))
	c.Frames.Dump = filepath.Join(dir, "unknown.ald")
	S, err = RunFrames(context.Background(), c, nil, nil, rep)
	require.NoError(Te, err)
	assert.Equal(Te, 2, S.Frames)
	assert.Equal(Te, 2, rep.SkippedSites())
	assert.Equal(Te, map[int]int{7: 2}, rep.UnknownSpeciesCounts())

	c.Frames.Catalog = filepath.Join(dir, "nope.yaml")
	_, err = RunFrames(context.Background(), c, nil, nil, nil)
	require.Error(Te, err)
}

const rules = `# ALD events
event 1 OH O A 1 0.5 c 1 deprot
event 2 O OH H VAC A 1 0.30 c1 c2 1 prot
event 2 O OH H VAC A 1 0.30 c3 c4 1 prot
event 1 OH H2O A 1 1.25 c 1
event 3 OH
`

type memGraph struct {
	species, edges, cycles int
}

func (M *memGraph) WriteNetwork(ctx context.Context, n *reaction.Network) error {
	M.species, M.edges = n.Len(), n.EdgeCount()
	return nil
}

func (M *memGraph) WriteCycles(ctx context.Context, cycles []reaction.Path) error {
	M.cycles = len(cycles)
	return nil
}

func TestReactions(Te *testing.T) {
	dir := Te.TempDir()
	writeFile(Te, filepath.Join(dir, "in.ald"), rules)
	g := &memGraph{}
	rep := kmc.NewReport()
	m := metrics.New()
	S, err := Reactions(context.Background(), ReactionOptions{
		Rules:   filepath.Join(dir, "in.ald"),
		Schema:  reaction.DefaultSchema(),
		Seeds:   []string{"OH", "O"},
		Workers: 2,
		Out:     filepath.Join(dir, "out"),
		CSV:     true,
		DOT:     true,
		SQLite:  filepath.Join(dir, "out", "rules.db"),
		Graph:   g,
		Report:  rep,
		Metrics: m,
	})
	require.NoError(Te, err)
	assert.Len(Te, S.Result.Tuples, 3)
	assert.Equal(Te, 1, S.Result.Duplicates)
	assert.Equal(Te, 1, rep.MalformedRules())
	require.NotEmpty(Te, S.Cycles)
	assert.Equal(Te, reaction.Path{"OH", "O", "OH"}, S.Cycles[0])
	for _, f := range []string{RulesCSV, CyclesCSV, NetworkDOT, CyclesDOT, "rules.db"} {
		_, err := os.Stat(filepath.Join(dir, "out", f))
		assert.NoError(Te, err, f)
	}
	assert.Equal(Te, S.Network.EdgeCount(), g.edges)
	assert.Equal(Te, len(S.Cycles), g.cycles)
	assert.Equal(Te, float64(len(S.Cycles)), testutil.ToFloat64(m.Cycles))
	require.Len(Te, S.Stats, 2)

	st, err := rxexport.OpenStore(filepath.Join(dir, "out", "rules.db"))
	require.NoError(Te, err)
	defer st.Close()
	back, err := st.Reactions(context.Background())
	require.NoError(Te, err)
	assert.Len(Te, back, 3)

	_, err = Reactions(context.Background(), ReactionOptions{Rules: filepath.Join(dir, "missing.ald"), Schema: reaction.DefaultSchema()})
	require.Error(Te, err)
	_, err = Reactions(context.Background(), ReactionOptions{Rules: filepath.Join(dir, "in.ald")})
	require.Error(Te, err, "empty schema")
}

func TestRunReactions(Te *testing.T) {
	dir := Te.TempDir()
	writeFile(Te, filepath.Join(dir, "in.ald"), rules)
	c, err := config.Load("")
	require.NoError(Te, err)
	c.Reactions.Rules = filepath.Join(dir, "in.ald")
	c.Reactions.Out = filepath.Join(dir, "out")
	c.Reactions.Plot = true
	S, err := RunReactions(context.Background(), c, nil, nil, nil)
	require.NoError(Te, err)
	assert.Contains(Te, S.Files, filepath.Join(dir, "out", BarrierPlot))
	assert.Contains(Te, S.Files, filepath.Join(dir, "out", BarrierJSON))
	assert.Len(Te, S.Files, 6)
}
