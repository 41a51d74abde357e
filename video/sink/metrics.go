package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipusink_frames_rendered_total",
		Help: "Frames blitted and handed to the output.",
	}, []string{"sink"})

	framesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipusink_frames_dropped_total",
		Help: "Frames received while the sink was stopped.",
	}, []string{"sink"})

	blitErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipusink_blit_errors_total",
		Help: "Frames the blitter failed to transform.",
	}, []string{"sink"})

	startFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipusink_start_failures_total",
		Help: "Sink starts that failed to bring up a blitter.",
	}, []string{"sink"})

	propertyWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipusink_property_writes_total",
		Help: "Property writes, by property.",
	}, []string{"sink", "property"})

	transposed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ipusink_transposed",
		Help: "1 if output frames have width and height swapped.",
	}, []string{"sink"})
)
