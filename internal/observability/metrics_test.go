package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide; each run owns its registry.
	m1 := NewMetrics()
	m2 := NewMetrics()
	m1.PagesFetched.Inc()
	m2.PagesFetched.Inc()
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.PagesFetched.Inc()
	m.RecordsExtracted.Add(420)
	m.RunDuration.Observe(1.5)

	path := filepath.Join(t.TempDir(), "city_temp.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "city_temp_etl_pages_fetched_total 1")
	assert.Contains(t, out, "city_temp_etl_records_extracted_total 420")
	assert.Contains(t, out, "city_temp_etl_run_duration_seconds_count 1")

	// No leftover temp file.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
