package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(Te *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"DEBUG": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"Error": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(Te, err, in)
		assert.Equal(Te, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(Te, err)
}

func TestNew(Te *testing.T) {
	for _, f := range []string{"", "json", "console"} {
		l, err := New("debug", f)
		require.NoError(Te, err, f)
		assert.True(Te, l.Core().Enabled(zapcore.DebugLevel))
	}
	l, err := New("error", "json")
	require.NoError(Te, err)
	assert.False(Te, l.Core().Enabled(zapcore.WarnLevel))
	_, err = New("info", "xml")
	require.Error(Te, err)
	assert.NotNil(Te, OrNop(nil))
	assert.False(Te, NewNop().Core().Enabled(zapcore.ErrorLevel))
}
