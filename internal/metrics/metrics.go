// Package metrics instruments the room registry and command dispatcher
// with Prometheus counters and gauges. This is an ambient concern spec.md
// doesn't mention and doesn't exclude — see SPEC_FULL.md §4.6 — grounded
// on RoseWrightdev-Video-Conferencing's internal/v1/metrics package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder wraps the process's metric instruments. A nil-safe Recorder is
// returned by NewDisabled for use when metrics aren't wired (e.g. tests).
type Recorder struct {
	enabled bool

	roomsActive      prometheus.Gauge
	usersActive      *prometheus.GaugeVec
	commandsTotal    *prometheus.CounterVec
	archiveFailures  prometheus.Counter
}

// New registers and returns the default set of instruments against reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		enabled: true,
		roomsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "planner",
			Subsystem: "room",
			Name:      "rooms_active",
			Help:      "Current number of live rooms.",
		}),
		usersActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "planner",
			Subsystem: "room",
			Name:      "users_active",
			Help:      "Current number of connected users, by room.",
		}, []string{"room"}),
		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Subsystem: "commands",
			Name:      "processed_total",
			Help:      "Total commands dispatched, by type and outcome.",
		}, []string{"type", "outcome"}),
		archiveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "planner",
			Subsystem: "archive",
			Name:      "failures_total",
			Help:      "Total room-archive attempts that failed or tripped the breaker.",
		}),
	}
}

// NewDisabled returns a Recorder whose methods are all no-ops, for callers
// that don't want metrics wired (tests, or a process with no registry).
func NewDisabled() *Recorder { return &Recorder{} }

func (r *Recorder) RoomCreated() {
	if r == nil || !r.enabled {
		return
	}
	r.roomsActive.Inc()
}

func (r *Recorder) RoomClosed() {
	if r == nil || !r.enabled {
		return
	}
	r.roomsActive.Dec()
}

func (r *Recorder) UserJoined(roomName string) {
	if r == nil || !r.enabled {
		return
	}
	r.usersActive.WithLabelValues(roomName).Inc()
}

func (r *Recorder) UserLeft(roomName string) {
	if r == nil || !r.enabled {
		return
	}
	r.usersActive.WithLabelValues(roomName).Dec()
}

func (r *Recorder) CommandProcessed(commandType, outcome string) {
	if r == nil || !r.enabled {
		return
	}
	r.commandsTotal.WithLabelValues(commandType, outcome).Inc()
}

func (r *Recorder) ArchiveFailure() {
	if r == nil || !r.enabled {
		return
	}
	r.archiveFailures.Inc()
}
