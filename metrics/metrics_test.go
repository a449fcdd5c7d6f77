package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(Te *testing.T) {
	M := New()
	M.Frame(3)
	M.Frame(2)
	M.Written(12)
	M.Skipped(9, 2)
	M.Skipped(9, 0)
	M.Rule(1)
	M.Rule(1)
	M.Rule(2)
	M.RuleFile(3, 1)
	M.Network(4, 5, 1)
	M.Stage("parse")()
	assert.Equal(Te, 2.0, testutil.ToFloat64(M.FramesRead))
	assert.Equal(Te, 5.0, testutil.ToFloat64(M.Sites))
	assert.Equal(Te, 12.0, testutil.ToFloat64(M.Atoms))
	assert.Equal(Te, 2.0, testutil.ToFloat64(M.SkippedSites.WithLabelValues("9")))
	assert.Equal(Te, 2.0, testutil.ToFloat64(M.Rules.WithLabelValues("1")))
	assert.Equal(Te, 3.0, testutil.ToFloat64(M.RulesSkipped))
	assert.Equal(Te, 1.0, testutil.ToFloat64(M.Cycles))
	assert.Equal(Te, 1, testutil.CollectAndCount(M.StageSeconds))
}

func TestNilMetrics(Te *testing.T) {
	var M *Metrics
	M.Frame(1)
	M.Written(1)
	M.Skipped(1, 1)
	M.Rule(1)
	M.RuleFile(1, 1)
	M.Network(1, 1, 1)
	M.Stage("x")()
	require.NoError(Te, M.WriteFile(filepath.Join(Te.TempDir(), "none.prom")))
}

func TestWriteFile(Te *testing.T) {
	M := New()
	M.Frame(7)
	p := filepath.Join(Te.TempDir(), "kmcrecon.prom")
	require.NoError(Te, M.WriteFile(p))
	b, err := os.ReadFile(p)
	require.NoError(Te, err)
	assert.Contains(Te, string(b), "kmcrecon_frames_sites_total 7")
}
