package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DispatcherMetrics — метрики цикла доставки.
type DispatcherMetrics struct {
	Cycles        prometheus.Counter
	SkippedCycles prometheus.Counter
	CycleErrors   prometheus.Counter
	DuePosts      prometheus.Gauge
	Delivered     *prometheus.CounterVec // label: media
	Fallbacks     prometheus.Counter
	Failed        prometheus.Counter
	MarkFailures  prometheus.Counter
	CycleDuration prometheus.Histogram
}

// NewDispatcherMetrics регистрирует метрики в reg.
// reg=nil — метрики создаются, но нигде не регистрируются (удобно в тестах).
func NewDispatcherMetrics(reg prometheus.Registerer) *DispatcherMetrics {
	f := promauto.With(reg)
	return &DispatcherMetrics{
		Cycles: f.NewCounter(prometheus.CounterOpts{
			Name: "ghostwriter_dispatcher_cycles_total",
			Help: "Dispatcher cycles executed",
		}),
		SkippedCycles: f.NewCounter(prometheus.CounterOpts{
			Name: "ghostwriter_dispatcher_skipped_cycles_total",
			Help: "Ticks skipped because the previous cycle was still running",
		}),
		CycleErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "ghostwriter_dispatcher_cycle_errors_total",
			Help: "Cycles aborted because due posts could not be fetched",
		}),
		DuePosts: f.NewGauge(prometheus.GaugeOpts{
			Name: "ghostwriter_dispatcher_due_posts",
			Help: "Due posts found in the last cycle",
		}),
		Delivered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ghostwriter_posts_delivered_total",
			Help: "Posts delivered to channels",
		}, []string{"media"}),
		Fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "ghostwriter_posts_plain_fallback_total",
			Help: "Deliveries retried with plain formatting",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Name: "ghostwriter_posts_delivery_failed_total",
			Help: "Delivery attempts left for the next cycle",
		}),
		MarkFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "ghostwriter_posts_mark_failed_total",
			Help: "Delivered posts that could not be marked published",
		}),
		CycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ghostwriter_dispatcher_cycle_duration_seconds",
			Help:    "Dispatcher cycle duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// APIMetrics — метрики HTTP API.
type APIMetrics struct {
	Requests *prometheus.CounterVec // labels: method, status
}

// NewAPIMetrics регистрирует метрики API в reg.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	return &APIMetrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ghostwriter_api_http_requests_total",
			Help: "Total HTTP requests handled by ghostwriter-api",
		}, []string{"method", "status"}),
	}
}
