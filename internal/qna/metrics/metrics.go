package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the qna module, centered on the
// deletion path.
type Metrics struct {
	QuestionsDeleted  prometheus.Counter
	DeletesDenied     prometheus.Counter
	QuestionsPurged   prometheus.Counter
	DeleteCascadeSize prometheus.Histogram
	DeleteDuration    prometheus.Histogram
}

// New creates a Metrics instance with all qna module metrics registered
// on the default registry.
func New() *Metrics {
	return &Metrics{
		QuestionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qna_questions_deleted_total",
			Help: "Total number of questions soft-deleted",
		}),
		DeletesDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qna_question_deletes_denied_total",
			Help: "Total number of deletions denied by the authorship rule",
		}),
		QuestionsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qna_questions_purged_total",
			Help: "Total number of questions physically removed",
		}),
		DeleteCascadeSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "qna_delete_cascade_size",
			Help:    "Delete-history records produced per successful deletion",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		DeleteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "qna_question_delete_duration_seconds",
			Help:    "Duration of the question deletion workflow",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveDelete records one successful deletion: cascade size and duration.
// Call with time.Now() captured at the start of the workflow.
func (m *Metrics) ObserveDelete(start time.Time, cascadeSize int) {
	m.QuestionsDeleted.Inc()
	m.DeleteCascadeSize.Observe(float64(cascadeSize))
	m.DeleteDuration.Observe(time.Since(start).Seconds())
}

// IncrementDeleteDenied records a deletion rejected by the authorship rule.
func (m *Metrics) IncrementDeleteDenied() {
	m.DeletesDenied.Inc()
}

// IncrementPurged records a physical removal.
func (m *Metrics) IncrementPurged() {
	m.QuestionsPurged.Inc()
}
