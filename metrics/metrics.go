package metrics

import (
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/conductor-ci/conductor/types"
)

const (
	MetricsNamespace = "conductor"
)

var (
	Debug        bool = true
	validResults      = []types.TestStatus{
		types.TestStatusPassed, types.TestStatusFailed,
		types.TestStatusError, types.TestStatusSkipped,
	}

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	suitesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suites_total",
		Help:      "Count of executed suites",
	}, []string{
		"run_id",
		"suite",
		"status",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of tests reported by suites",
	}, []string{
		"run_id",
		"suite",
		"status",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of suite runs",
	}, []string{
		"run_id",
		"result",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of suite runs",
	}, []string{
		"run_id",
	})
)

func RecordError(error string) {
	if Debug {
		logrus.WithField("error", error).Debug("metric inc errors_total")
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordSuite counts one completed suite with its terminal status.
func RecordSuite(runID, suiteID string, status types.SuiteStatus) {
	if Debug {
		logrus.WithFields(logrus.Fields{
			"run_id": runID,
			"suite":  suiteID,
			"status": status,
		}).Debug("metric inc suites_total")
	}
	suitesTotal.WithLabelValues(runID, suiteID, string(status)).Inc()
}

// RecordTest counts one test result reported by a suite.
func RecordTest(runID, suiteID string, status types.TestStatus) {
	if !isValidResult(status) {
		logrus.WithField("status", status).Error("RecordTest - invalid status")
		return
	}
	testsTotal.WithLabelValues(runID, suiteID, string(status)).Inc()
}

// RecordRun publishes the aggregate outcome of a full run.
func RecordRun(runID string, failed bool, duration time.Duration) {
	result := "passed"
	if failed {
		result = "failed"
	}
	runResults.WithLabelValues(runID, result).Set(1)
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidResult(result types.TestStatus) bool {
	return slices.Contains(validResults, result)
}
