package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of live session tokens",
		},
		[]string{"kind"},
	)

	SessionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Total number of session tokens issued",
		},
		[]string{"kind"},
	)

	SessionsRevoked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_revoked_total",
			Help: "Total number of session tokens revoked by logout",
		},
		[]string{"kind"},
	)

	SessionsSuperseded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_superseded_total",
			Help: "Total number of session tokens retired by a newer login",
		},
		[]string{"kind"},
	)

	SessionsExpiredCleanup = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_cleanup_total",
			Help: "Total number of expired signed sessions swept by cleanup",
		},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)
)
