package ligand

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ohXYZ = "2\nhydroxyl\nO 0.0 0.0 0.0\nH 0.0 0.0 0.97\n"
const alXYZ = "1\n\nAl 0 0 0\n"
const h2oXYZ = "3\nwater\nO 0 0 0\nH 0.76 0.59 0\nH -0.76 0.59 0\n"

func gz(Te *testing.T, s string) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	_, err := w.Write([]byte(s))
	require.NoError(Te, err)
	require.NoError(Te, w.Close())
	return b.Bytes()
}

func TestParseManifest(Te *testing.T) {
	in := `
templates_dir: mol
anchor: 0
policy: skip
species:
  2: OH
  3: Al
  13: Al
anchors:
  OH: 1
`
	m, err := ParseManifest(strings.NewReader(in))
	require.NoError(Te, err)
	assert.Equal(Te, "mol", m.TemplatesDir)
	assert.Equal(Te, MissingFail, m.Missing)
	assert.Equal(Te, []string{"Al", "OH"}, m.Names())
	assert.Equal(Te, 1, m.Anchors["OH"])

	bad := []string{
		"",
		"species: {}\n",
		"policy: maybe\nspecies: {1: O}\n",
		"missing: ignore\nspecies: {1: O}\n",
		"speciez: {1: O}\n",
		"species: {1: ''}\n",
	}
	for _, b := range bad {
		_, err := ParseManifest(strings.NewReader(b))
		assert.Error(Te, err, b)
	}
}

func TestCatalogFS(Te *testing.T) {
	fsys := fstest.MapFS{
		"mol/OH.xyz":     {Data: []byte(ohXYZ)},
		"mol/Al.xyz.gz":  {Data: gz(Te, alXYZ)},
		"mol/H2O.xyz":    {Data: []byte(h2oXYZ)},
		"mol/README.txt": {Data: []byte("not a template")},
	}
	m := &Manifest{
		TemplatesDir: "mol",
		Missing:      MissingFail,
		Species:      map[int]string{2: "OH", 3: "Al", 13: "Al", 25: "H2O"},
		Anchors:      map[string]int{"OH": 1},
	}
	require.NoError(Te, m.Validate())
	cat, err := m.Catalog(fsys, "mol", nil)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2, 3, 13, 25}, cat.Codes())
	assert.Equal(Te, kmc.FailFast, cat.Policy())
	a, _ := cat.Lookup(3)
	b, _ := cat.Lookup(13)
	assert.Same(Te, a, b)
	oh, _ := cat.Lookup(2)
	assert.Equal(Te, 1, oh.Anchor)
	assert.Equal(Te, [3]float64{0, 0, 0.97}, oh.AnchorPosition())
	w, _ := cat.Lookup(25)
	assert.Equal(Te, 3, w.Len())
}

func TestMissingTemplates(Te *testing.T) {
	fsys := fstest.MapFS{"OH.xyz": {Data: []byte(ohXYZ)}}
	m := &Manifest{Species: map[int]string{1: "O", 2: "OH"}, Missing: MissingFail}
	_, err := m.Catalog(fsys, ".", nil)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "species [1]")

	m.Missing = MissingSkip
	cat, err := m.Catalog(fsys, ".", nil)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2}, cat.Codes())

	m.Missing = MissingPlaceholder
	cat, err = m.Catalog(fsys, ".", nil)
	require.NoError(Te, err)
	o, ok := cat.Lookup(1)
	require.True(Te, ok)
	assert.Equal(Te, PlaceholderSymbol, o.Atom(0).Symbol)

	//a broken template is always an error
	fsys["O.xyz"] = &fstest.MapFile{Data: []byte("1\n\nO 0 0\n")}
	_, err = m.Catalog(fsys, ".", nil)
	require.Error(Te, err)

	//and so is an anchor out of range
	delete(fsys, "O.xyz")
	m.Anchors = map[string]int{"OH": 5}
	_, err = m.Catalog(fsys, ".", nil)
	require.Error(Te, err)
}

func TestLoad(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, os.Mkdir(filepath.Join(dir, "mol"), 0o755))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "mol", "OH.xyz"), []byte(ohXYZ), 0o644))
	manifest := filepath.Join(dir, "species.yaml")
	require.NoError(Te, os.WriteFile(manifest, []byte("templates_dir: mol\npolicy: skip\nspecies:\n  2: OH\n"), 0o644))
	cat, err := Load(manifest, nil)
	require.NoError(Te, err)
	assert.Equal(Te, kmc.SkipWarn, cat.Policy())
	assert.Equal(Te, 1, cat.Len())

	_, err = Load(filepath.Join(dir, "nothere.yaml"), nil)
	require.Error(Te, err)
}
