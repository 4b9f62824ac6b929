package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const (
	// MetricsNamespace prefixes every metric the admin API exports.
	MetricsNamespace = "propertylens"

	logStatementsName = "log_statements_total"
)

// logStatements is registered once per process, the first Init wins the service label.
var logStatements *prometheus.CounterVec //nolint:gochecknoglobals

// LevelCounter counts log events per level.
type LevelCounter struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook. Events without a level are not counted.
func (h LevelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel {
		return
	}

	h.counter.WithLabelValues(level.String()).Inc()
}

// NewLevelCounter returns the hook behind propertylens_log_statements_total.
func NewLevelCounter(service string) LevelCounter {
	if logStatements == nil {
		logStatements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   MetricsNamespace,
				Name:        logStatementsName,
				Help:        "Log events written by the admin API, by level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	}

	return LevelCounter{counter: logStatements}
}
