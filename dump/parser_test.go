package dump

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/fileio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDump writes a dump with nframes frames of natoms sites each. The species of
// site j in frame t is t+j, so frames can be told apart.
func sampleDump(nframes, natoms int) string {
	var b strings.Builder
	for t := 0; t < nframes; t++ {
		fmt.Fprintf(&b, "ITEM: TIMESTEP\n%d %g\nITEM: NUMBER OF ATOMS\n%d\n", t, 0.1*float64(t), natoms)
		b.WriteString("ITEM: BOX BOUNDS\n0 24\n0 24\n0 65\n")
		b.WriteString("ITEM: ATOMS id i1 x y z d1\n")
		for j := 0; j < natoms; j++ {
			fmt.Fprintf(&b, "%d %d %d %d %d %g\n", j+1, t+j, j, 2*j, t, 0.5)
		}
	}
	return b.String()
}

func readAll(Te *testing.T, p *Parser) ([]kmc.Frame, error) {
	Te.Helper()
	var frames []kmc.Frame
	for {
		var f kmc.Frame
		err := p.Next(&f)
		if err != nil {
			if kmc.IsLastFrame(err) {
				return frames, nil
			}
			return frames, err
		}
		frames = append(frames, f)
	}
}

func TestAllFrames(Te *testing.T) {
	p := NewParser(strings.NewReader(sampleDump(5, 3)), "sample", All())
	frames, err := readAll(Te, p)
	require.NoError(Te, err)
	require.Len(Te, frames, 5)
	assert.Equal(Te, 3, p.Len())
	assert.Equal(Te, Done, p.State())
	for t, f := range frames {
		assert.Equal(Te, t, f.Time)
		require.Equal(Te, 3, f.Len())
		assert.Equal(Te, []string{"id", "i1", "x", "y", "z", "d1"}, f.Columns)
		for j, s := range f.Sites {
			assert.Equal(Te, j+1, s.ID)
			assert.Equal(Te, t+j, s.Species)
			assert.Equal(Te, [3]float64{float64(j), float64(2 * j), float64(t)}, s.Index)
			assert.Equal(Te, map[string]float64{"d1": 0.5}, s.Fields)
		}
	}
	//Next keeps returning the end of the stream
	var f kmc.Frame
	assert.True(Te, errors.Is(p.Next(&f), io.EOF))
}

func TestWindow(Te *testing.T) {
	windows := []Window{
		All(),
		{Start: 2, End: Unbounded, Stride: 1},
		{Start: 1, End: 7, Stride: 3},
		{Start: 0, End: 0, Stride: 1},
		{Start: 4, End: 100, Stride: 5},
		{Start: 20, End: Unbounded, Stride: 1},
	}
	const nframes = 10
	for _, w := range windows {
		var want []int
		for t := 0; t < nframes; t++ {
			if w.Admit(t) {
				want = append(want, t)
			}
		}
		for rep := 0; rep < 2; rep++ {
			p := NewParser(strings.NewReader(sampleDump(nframes, 4)), "sample", w)
			frames, err := readAll(Te, p)
			require.NoError(Te, err, w.String())
			var got []int
			for _, f := range frames {
				got = append(got, f.Time)
				assert.Equal(Te, 4, f.Len())
				//skipped frames must not shift the site records
				assert.Equal(Te, f.Time, f.Sites[0].Species, w.String())
			}
			assert.Equal(Te, want, got, w.String())
		}
	}
}

func TestAdmit(Te *testing.T) {
	w := Window{Start: 3, End: 12, Stride: 4}
	var got []int
	for t := 0; t < 20; t++ {
		if w.Admit(t) {
			got = append(got, t)
		}
		assert.Equal(Te, w.Admit(t), w.Admit(t))
	}
	assert.Equal(Te, []int{3, 7, 11}, got)
	assert.True(Te, w.Past(13))
	assert.False(Te, w.Past(12))
}

func TestParseWindow(Te *testing.T) {
	cases := map[string]Window{
		"":        All(),
		"100":     {Start: 100, End: Unbounded, Stride: 1},
		":500:10": {Start: 0, End: 500, Stride: 10},
		"5:9":     {Start: 5, End: 9, Stride: 1},
		"5::2":    {Start: 5, End: Unbounded, Stride: 2},
	}
	for s, want := range cases {
		w, err := ParseWindow(s)
		require.NoError(Te, err, s)
		assert.Equal(Te, want, w, s)
	}
	for _, s := range []string{"a", "1:2:3:4", "5:2", "0:10:0", "-1"} {
		_, err := ParseWindow(s)
		assert.Error(Te, err, s)
	}
}

func TestEarlyStop(Te *testing.T) {
	//the stream is broken after frame 2, but the window ends at 1
	in := sampleDump(3, 2) + "ITEM: ATOMS id i1 x y z d1\n1 1 1\n"
	p := NewParser(strings.NewReader(in), "sample", Window{Start: 0, End: 1, Stride: 1})
	frames, err := readAll(Te, p)
	require.NoError(Te, err)
	assert.Len(Te, frames, 2)
	assert.Equal(Te, 2, p.Time())
}

func TestTruncated(Te *testing.T) {
	in := sampleDump(2, 3)
	in = in[:strings.LastIndex(strings.TrimSuffix(in, "\n"), "\n")+1] //drop the last site record
	for _, w := range []Window{All(), {Start: 0, End: Unbounded, Stride: 2}} {
		p := NewParser(strings.NewReader(in), "short", w)
		frames, err := readAll(Te, p)
		var tr *kmc.TruncatedFrameError
		require.ErrorAs(Te, err, &tr, w.String())
		assert.Equal(Te, 1, tr.Time)
		assert.Equal(Te, 2, tr.Have)
		assert.Equal(Te, 3, tr.Want)
		//frames read before the error are kept
		require.Len(Te, frames, 1)
		assert.Equal(Te, 0, frames[0].Time)
		fmt.Println(err)
	}
}

func TestMissingCount(Te *testing.T) {
	p := NewParser(strings.NewReader("ITEM: TIMESTEP\n0\n"), "tiny", All())
	var f kmc.Frame
	err := p.Next(&f)
	var fe *kmc.FormatError
	require.ErrorAs(Te, err, &fe)
	assert.Contains(Te, fe.Msg, "missing atom count")

	p = NewParser(strings.NewReader("a\nb\nc\nthree\n"), "bad", All())
	require.ErrorAs(Te, p.Next(&f), &fe)
	assert.Equal(Te, 4, fe.Line)
}

func TestMalformedSites(Te *testing.T) {
	head := "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n2\n"
	cases := map[string]string{
		"too few fields":   "ITEM: ATOMS i1 x y z\n1 0 0 0\n1 0 0\n",
		"not a number":     "ITEM: ATOMS i1 x y z\n1 0 0 0\n1 0 zero 0\n",
		"fractional code":  "ITEM: ATOMS i1 x y z\n1.5 0 0 0\n1 0 0 0\n",
		"no species":       "ITEM: ATOMS x y z\n0 0 0\n0 0 0\n",
		"no z":             "ITEM: ATOMS i1 x y\n1 0 0\n1 0 0\n",
		"blank in frame":   "ITEM: ATOMS i1 x y z\n1 0 0 0\n\n",
		"repeated columns": "ITEM: ATOMS i1 x y z x\n1 0 0 0 0\n1 0 0 0 0\n",
	}
	for name, body := range cases {
		p := NewParser(strings.NewReader(head+body), name, All())
		var f kmc.Frame
		err := p.Next(&f)
		var fe *kmc.FormatError
		require.ErrorAs(Te, err, &fe, name)
		assert.Equal(Te, 0, fe.Time, name)
		assert.Greater(Te, fe.Line, 4, name)
	}
}

func TestDefaultsAndOptions(Te *testing.T) {
	//no id column, fractional lattice coordinates, custom marker and species column
	in := "x\nx\nx\n2\nFRAME sp x y z\n3 0.5 0.5 0\n0 1 0 0.25\n"
	p := NewParser(strings.NewReader(in), "opts", All(), WithMarker("FRAME"), WithSpeciesColumn("sp"))
	frames, err := readAll(Te, p)
	require.NoError(Te, err)
	require.Len(Te, frames, 1)
	s := frames[0].Sites
	assert.Equal(Te, 1, s[0].ID)
	assert.Equal(Te, 2, s[1].ID)
	assert.Equal(Te, 0, s[1].Species)
	assert.Equal(Te, [3]float64{0.5, 0.5, 0}, s[0].Index)
	assert.Nil(Te, s[0].Fields)
	assert.Equal(Te, 7, s[1].Line)
}

func TestZeroCount(Te *testing.T) {
	in := "a\nb\nc\n0\nITEM: ATOMS i1 x y z\nITEM: ATOMS i1 x y z\nITEM: ATOMS i1 x y z\n"
	p := NewParser(strings.NewReader(in), "empty", Window{Start: 1, End: Unbounded, Stride: 1})
	frames, err := readAll(Te, p)
	require.NoError(Te, err)
	require.Len(Te, frames, 2)
	assert.Equal(Te, 0, frames[0].Len())
	assert.Equal(Te, 2, frames[1].Time)
}

func TestCompressedDump(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "dump.ald.zst")
	w, err := fileio.Create(name)
	require.NoError(Te, err)
	_, err = io.WriteString(w, sampleDump(4, 5))
	require.NoError(Te, err)
	require.NoError(Te, w.Close())

	f, err := Open(name, Window{Start: 1, End: Unbounded, Stride: 2})
	require.NoError(Te, err)
	defer f.Close()
	frames, err := readAll(Te, f.Parser)
	require.NoError(Te, err)
	require.Len(Te, frames, 2)
	assert.Equal(Te, 1, frames[0].Time)
	assert.Equal(Te, 3, frames[1].Time)
	assert.Equal(Te, 5, frames[1].Len())
}
