package structio

import (
	"bytes"
	"os"
	"strings"
	"testing"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/fileio"
	v3 "github.com/aldkmc/kmcrecon/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStructure(Te *testing.T) *kmc.Structure {
	lat, err := kmc.NewLattice([9]float64{10, 0, 0, 0, 10, 0, 0, 0, 20})
	require.NoError(Te, err)
	c, err := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1, 5, 5, 10})
	require.NoError(Te, err)
	return &kmc.Structure{
		Atoms:   []*kmc.Atom{{Symbol: "O", ID: 1}, {Symbol: "H", ID: 2}, {Symbol: "Al", ID: 3}},
		Coords:  c,
		Species: []int{2, 2, 3},
		Cell:    lat,
		PBC:     [3]bool{true, true, true},
		Time:    12,
	}
}

func TestXYZRoundTrip(Te *testing.T) {
	st := sampleStructure(Te)
	var b bytes.Buffer
	require.NoError(Te, WriteXYZ(&b, st))
	assert.Contains(Te, b.String(), `pbc="T T T" Time=12`)
	atoms, coords, comment, err := ReadXYZ(&b)
	require.NoError(Te, err)
	assert.Contains(Te, comment, "Lattice=")
	require.Len(Te, atoms, 3)
	assert.Equal(Te, "Al", atoms[2].Symbol)
	assert.Equal(Te, "Al3", atoms[2].Name)
	assert.InDelta(Te, 10.0, coords.At(2, 2), 1e-8)
}

func TestReadXYZErrors(Te *testing.T) {
	cases := []string{
		"",
		"two\n\n",
		"2\ncomment\nO 0 0 0\n",
		"1\ncomment\nO 0 0\n",
		"1\ncomment\nO 0 x 0\n",
	}
	for _, c := range cases {
		_, _, _, err := ReadXYZ(strings.NewReader(c))
		assert.Error(Te, err, c)
	}
}

func TestCIF(Te *testing.T) {
	st := sampleStructure(Te)
	var b bytes.Buffer
	require.NoError(Te, WriteCIF(&b, st))
	out := b.String()
	assert.Contains(Te, out, "data_frame_000012")
	assert.Contains(Te, out, "_chem_formula_sum 'Al H O'")
	assert.Contains(Te, out, "_cell_length_c 20.000000")
	assert.Contains(Te, out, "_cell_angle_gamma 90.000000")
	assert.Contains(Te, out, "Al Al1    1   0.500000   0.500000   0.500000 1.0")
}

func TestDirSink(Te *testing.T) {
	dir := Te.TempDir() + "/frames"
	st := sampleStructure(Te)
	for _, f := range []Format{CIF, XYZ} {
		for _, c := range []fileio.Codec{fileio.Plain, fileio.Gzip, fileio.Zstd} {
			s, err := NewDirSink(dir, f, c)
			require.NoError(Te, err)
			dest := FrameName(st.Time)
			require.NoError(Te, s.Write(st, dest))
			p := s.Path(dest)
			assert.True(Te, strings.HasSuffix(fileio.Trim(p), "frame_000012."+f.String()), p)
			_, err = os.Stat(p)
			require.NoError(Te, err)
			if f == XYZ {
				r, err := fileio.Open(p)
				require.NoError(Te, err)
				atoms, _, _, err := ReadXYZ(r)
				r.Close()
				require.NoError(Te, err)
				assert.Len(Te, atoms, 3)
			}
		}
	}
}

func TestCorruptedStructure(Te *testing.T) {
	st := sampleStructure(Te)
	st.Species = st.Species[:2]
	var b bytes.Buffer
	assert.Error(Te, WriteXYZ(&b, st))
	assert.Error(Te, WriteCIF(&b, st))
}
