package autonomy_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traviworld/editorial/internal/autonomy"
	"github.com/traviworld/editorial/internal/config"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/metrics"
)

func workerConfig() config.WorkerConfig {
	return config.WorkerConfig{
		TrendingSchedule: "*/10 * * * *",
		SweepSchedule:    "* * * * *",
		AuditSchedule:    "0 * * * *",
		ReindexSchedule:  "30 4 * * *",
	}
}

func TestNewWorker_InvalidSchedule(t *testing.T) {
	jobs, _, _ := newJobs(t, "http://localhost", nil)

	cfg := workerConfig()
	cfg.TrendingSchedule = "every ten minutes"

	_, err := autonomy.NewWorker(jobs, cfg, metrics.NewMetrics(prometheus.NewRegistry()), logger.NewNopLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "trending")
}

func TestWorker_StartStop(t *testing.T) {
	jobs, _, _ := newJobs(t, "http://localhost", nil)

	worker, err := autonomy.NewWorker(jobs, workerConfig(), metrics.NewMetrics(prometheus.NewRegistry()), logger.NewNopLogger())
	require.NoError(t, err)

	assert.False(t, worker.IsRunning())

	worker.Start()
	assert.True(t, worker.IsRunning())

	worker.Start() // second call is a no-op
	assert.True(t, worker.IsRunning())

	worker.Stop()
	assert.False(t, worker.IsRunning())

	worker.Stop() // stopping twice is safe
	assert.False(t, worker.IsRunning())
}
