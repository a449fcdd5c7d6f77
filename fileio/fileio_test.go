package fileio

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFor(Te *testing.T) {
	cases := map[string]Codec{
		"dump.ald":      Plain,
		"dump.ald.zst":  Zstd,
		"dump.ald.ZSTD": Zstd,
		"dump.gz":       Gzip,
		"x.flate":       Flate,
		"x.lzw":         LZW,
		"x.Z":           LZW,
		"x.z":           Plain,
		"noext":         Plain,
	}
	for name, want := range cases {
		assert.Equal(Te, want, CodecFor(name), name)
	}
	assert.Equal(Te, "frame_000001.cif", Trim("frame_000001.cif.gz"))
	assert.Equal(Te, "frame_000001.cif", Trim("frame_000001.cif"))
	c, err := ParseCodec("zstd")
	require.NoError(Te, err)
	assert.Equal(Te, ".zst", c.Ext())
	_, err = ParseCodec("bz2")
	require.Error(Te, err)
}

func TestRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	text := strings.Repeat("1 0 0 0 3 0.5\n", 500)
	for _, ext := range []string{"", ".zst", ".gz", ".flate", ".lzw"} {
		name := filepath.Join(dir, "dump.ald"+ext)
		w, err := Create(name)
		require.NoError(Te, err, ext)
		_, err = io.WriteString(w, text)
		require.NoError(Te, err, ext)
		require.NoError(Te, w.Close(), ext)

		r, err := Open(name)
		require.NoError(Te, err, ext)
		var b bytes.Buffer
		_, err = io.Copy(&b, r)
		require.NoError(Te, err, ext)
		require.NoError(Te, r.Close(), ext)
		assert.Equal(Te, text, b.String(), ext)
	}
}

func TestOpenMissing(Te *testing.T) {
	_, err := Open(filepath.Join(Te.TempDir(), "nothere.gz"))
	require.Error(Te, err)
}
