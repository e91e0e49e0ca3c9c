package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decksmith_generations_total",
			Help: "Total number of generation requests by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "decksmith_stage_duration_seconds",
			Help:    "Duration of each generation stage in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	SlidesAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decksmith_slides_added_total",
			Help: "Total number of slides added to generated decks",
		},
	)

	SlidesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decksmith_slides_skipped_total",
			Help: "Total number of outline slides skipped for an unknown layout",
		},
	)
)

// Stage names used as the "stage" label.
const (
	StageInspect   = "inspect"
	StageStructure = "structure"
	StageAssemble  = "assemble"
)

// ObserveStage records the time elapsed since start for stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
