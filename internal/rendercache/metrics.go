package rendercache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	deviceLabel = "device"
)

var (
	sceneRebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxtrace_scene_rebuilds_total",
		Help: "The total number of scene rebuilds.",
	}, []string{deviceLabel})

	sceneRebuildFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxtrace_scene_rebuild_failures_total",
		Help: "The total number of scene rebuilds that failed.",
	}, []string{deviceLabel})

	sceneObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxtrace_scene_objects",
		Help: "The number of objects in the current scene.",
	})

	sceneQuads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxtrace_scene_quads",
		Help: "The number of quads in the current scene.",
	})

	sceneBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxtrace_scene_build_seconds",
		Help:    "The time spent building a scene into a new session.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxtrace_sessions_active",
		Help: "The number of live render sessions.",
	})
)

func instrumentRebuild(device string, objects, quads int, d time.Duration) {
	sceneRebuildsTotal.
		With(prometheus.Labels{deviceLabel: device}).
		Inc()
	sceneObjects.Set(float64(objects))
	sceneQuads.Set(float64(quads))
	sceneBuildSeconds.Observe(d.Seconds())
}

func instrumentRebuildFailure(device string) {
	sceneRebuildFailuresTotal.
		With(prometheus.Labels{deviceLabel: device}).
		Inc()
}

func instrumentOpenSession() {
	sessionsActive.Inc()
}

func instrumentCloseSession() {
	sessionsActive.Dec()
}
