package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_toggles_total",
			Help: "Total number of like toggles by resulting state",
		},
		[]string{"result"},
	)

	LikeToggleConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "like_toggle_conflicts_total",
			Help: "Total number of like inserts that hit the uniqueness constraint",
		},
	)

	FeedPageDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_page_duration_seconds",
			Help:    "Duration of feed page assembly in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"view"},
	)

	FeedPageSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_page_items",
			Help:    "Number of posts returned per feed page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"view"},
	)

	LikeStreamConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "like_stream_connections_active",
			Help: "Number of active like stream WebSocket connections",
		},
	)

	LikeStreamEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "like_stream_events_total",
			Help: "Total number of like events broadcast",
		},
	)

	LikeStreamDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_stream_dropped_total",
			Help: "Total number of like events dropped for slow clients",
		},
		[]string{"reason"},
	)

	LikeStreamDisconnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_stream_disconnections_total",
			Help: "Total number of like stream disconnections",
		},
		[]string{"reason"},
	)
)
