// Package metrics exposes Prometheus counters for practice sessions, notes
// and the equation solver.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/studyhub/backend/internal/practice"
)

// Metrics implements practice.Observer, notes.Recorder and solver.Recorder.
//
// All metrics are prefixed with "studyhub_":
//   - studyhub_answers_total{category,outcome}
//   - studyhub_points_awarded_total{category}
//   - studyhub_practice_sessions_active
//   - studyhub_note_operations_total{op,result}
//   - studyhub_solver_requests_total{backend,result}
//   - studyhub_http_request_duration_seconds{route,method,status}
type Metrics struct {
	AnswersTotal        *prometheus.CounterVec
	PointsAwardedTotal  *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	NoteOperationsTotal *prometheus.CounterVec
	SolverRequestsTotal *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnswersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyhub_answers_total",
				Help: "Practice questions resolved, by outcome",
			},
			[]string{"category", "outcome"}, // correct, incorrect, timeout
		),
		PointsAwardedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyhub_points_awarded_total",
				Help: "Points awarded for correct answers",
			},
			[]string{"category"},
		),
		ActiveSessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "studyhub_practice_sessions_active",
				Help: "Practice sessions currently held in memory",
			},
		),
		NoteOperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyhub_note_operations_total",
				Help: "Note store operations, by result",
			},
			[]string{"op", "result"},
		),
		SolverRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyhub_solver_requests_total",
				Help: "Equation solver calls, by backend and result",
			},
			[]string{"backend", "result"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studyhub_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
	}
}

func (m *Metrics) AnswerRecorded(o practice.Outcome) {
	outcome := "incorrect"
	switch {
	case o.TimedOut:
		outcome = "timeout"
	case o.Correct:
		outcome = "correct"
	}
	m.AnswersTotal.WithLabelValues(o.Category, outcome).Inc()
	if o.ScoreDelta > 0 {
		m.PointsAwardedTotal.WithLabelValues(o.Category).Add(float64(o.ScoreDelta))
	}
}

func (m *Metrics) SessionsActive(n int) {
	m.ActiveSessions.Set(float64(n))
}

func (m *Metrics) NoteOperation(op string, err error) {
	m.NoteOperationsTotal.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) SolverRequest(backend string, err error) {
	m.SolverRequestsTotal.WithLabelValues(backend, result(err)).Inc()
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
