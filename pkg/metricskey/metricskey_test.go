package metricskey

import (
	"sort"
	"testing"

	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDefinitions(t *testing.T) {
	allMetrics := []*metrics.Describe{
		&PerfRemoteRequest,
		&PerfToolCall,
		&StatsArtifactBytesDownloaded,
		&StatsRemoteRequestsFailed,
		&StatsRemoteRequestsRetried,
		&StatsToolCallsFailed,
		&StatsToolCallsSentinel,
		&StatsToolCallsSucceeded,
	}

	for _, m := range allMetrics {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Help)
		assert.NotEmpty(t, m.RequiredTags, m.Name)
	}
	assert.Len(t, Metrics, len(allMetrics))

	isSorted := sort.SliceIsSorted(Metrics, func(i, j int) bool {
		return Metrics[i].Name < Metrics[j].Name
	})
	assert.True(t, isSorted, "Metrics slice should be sorted by name")

	seen := make(map[string]bool)
	for _, m := range Metrics {
		assert.False(t, seen[m.Name], "duplicate metric: %s", m.Name)
		seen[m.Name] = true
	}

	t.Run("tool metrics", func(t *testing.T) {
		for _, m := range []*metrics.Describe{
			&PerfToolCall,
			&StatsToolCallsSucceeded,
			&StatsToolCallsFailed,
			&StatsToolCallsSentinel,
		} {
			assert.Equal(t, []string{"tool"}, m.RequiredTags, m.Name)
		}
	})

	t.Run("remote metrics", func(t *testing.T) {
		for _, m := range []*metrics.Describe{
			&PerfRemoteRequest,
			&StatsRemoteRequestsFailed,
			&StatsRemoteRequestsRetried,
			&StatsArtifactBytesDownloaded,
		} {
			assert.Contains(t, m.RequiredTags, "op", m.Name)
		}
	})
}
