package observability

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the API and the study-domain
// counters. Init is gated on METRICS_ENABLED; a nil *Metrics is a no-op
// everywhere so call sites never need their own guard.
type Metrics struct {
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	quizzesGenerated   *prometheus.CounterVec
	submissionsScored  *prometheus.CounterVec
	importRowsTotal    *prometheus.CounterVec
	malformedQuestions prometheus.Counter
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func Init() *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = &Metrics{
			apiRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "coachprep",
					Name:      "api_requests_total",
					Help:      "Total API requests by method/route/status.",
				},
				[]string{"method", "route", "status"},
			),
			apiLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "coachprep",
					Name:      "api_request_duration_seconds",
					Help:      "API request latency in seconds by method/route/status.",
					Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
				},
				[]string{"method", "route", "status"},
			),
			apiInflight: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "coachprep",
				Name:      "api_inflight_requests",
				Help:      "In-flight API requests.",
			}),
			quizzesGenerated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "coachprep",
					Name:      "quizzes_generated_total",
					Help:      "Quizzes generated by topic.",
				},
				[]string{"topic"},
			),
			submissionsScored: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "coachprep",
					Name:      "submissions_scored_total",
					Help:      "Quiz submissions scored by topic.",
				},
				[]string{"topic"},
			),
			importRowsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "coachprep",
					Name:      "import_rows_total",
					Help:      "Bulk importer rows by kind and outcome.",
				},
				[]string{"kind", "outcome"},
			),
			malformedQuestions: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "coachprep",
				Name:      "malformed_questions_skipped_total",
				Help:      "Questions skipped at serve time for not having exactly one correct option.",
			}),
		}
	})
	return instance
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncQuizGenerated(topic string) {
	if m == nil {
		return
	}
	m.quizzesGenerated.WithLabelValues(topic).Inc()
}

func (m *Metrics) IncSubmissionScored(topic string) {
	if m == nil {
		return
	}
	m.submissionsScored.WithLabelValues(topic).Inc()
}

func (m *Metrics) AddImportRows(kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importRowsTotal.WithLabelValues(kind, outcome).Add(float64(n))
}

func (m *Metrics) IncMalformedQuestion() {
	if m == nil {
		return
	}
	m.malformedQuestions.Inc()
}
