package matgraph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/gogpu/matgraph")

const (
	metricsNamespace  = "matgraph"
	compilerSubsystem = "compiler"
)

var (
	compilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: compilerSubsystem,
		Name:      "compiles_total",
		Help:      "Graph compilations by result",
	}, []string{"result"})

	compileErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: compilerSubsystem,
		Name:      "errors_total",
		Help:      "Failed compilations by error kind",
	}, []string{"kind"})

	compileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: compilerSubsystem,
		Name:      "duration_seconds",
		Help:      "Time spent resolving and generating one graph",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: compilerSubsystem,
		Name:      "operations_total",
		Help:      "Generated operations by disposition",
	}, []string{"disposition"})
)

func recordCompile(elapsed time.Duration, res *Result, err error) {
	compileDuration.Observe(elapsed.Seconds())
	if err != nil {
		compilesTotal.WithLabelValues("error").Inc()
		compileErrorsTotal.WithLabelValues(KindOf(err).String()).Inc()
		return
	}
	compilesTotal.WithLabelValues("ok").Inc()
	operationsTotal.WithLabelValues("materialized").Add(float64(res.Info.Materialized))
	operationsTotal.WithLabelValues("inlined").Add(float64(res.Info.Inlined))
	operationsTotal.WithLabelValues("eliminated").Add(float64(res.Info.Eliminated))
}
