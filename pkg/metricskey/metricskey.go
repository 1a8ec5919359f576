package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsToolCallsSucceeded is base for counter metric for tool calls returning a result
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	// StatsToolCallsSentinel counts results reported as "Error: ..." text
	StatsToolCallsSentinel = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_sentinel",
		Help:         "stats_tool_calls_sentinel provides total tool calls returned a sentinel result",
		RequiredTags: []string{"tool"},
	}

	StatsRemoteRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_remote_requests_failed",
		Help:         "stats_remote_requests_failed provides total Tendem API requests failed",
		RequiredTags: []string{"op", "kind"},
	}

	StatsRemoteRequestsRetried = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_remote_requests_retried",
		Help:         "stats_remote_requests_retried provides total Tendem API requests retried",
		RequiredTags: []string{"op"},
	}

	StatsArtifactBytesDownloaded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_artifact_bytes_downloaded",
		Help:         "stats_artifact_bytes_downloaded provides total bytes of downloaded artifacts",
		RequiredTags: []string{"op"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfRemoteRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_remote_request",
		Help:         "perf_remote_request provides duration of Tendem API request, including retries",
		RequiredTags: []string{"op"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfRemoteRequest,
	&PerfToolCall,
	&StatsArtifactBytesDownloaded,
	&StatsRemoteRequestsFailed,
	&StatsRemoteRequestsRetried,
	&StatsToolCallsFailed,
	&StatsToolCallsSentinel,
	&StatsToolCallsSucceeded,
}
