package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for game state changes and persistence.
type Observer interface {
	RecordHeartLost(interest string)
	RecordHeartsRegenerated(interest string, n int)
	RecordStageCompleted(interest string)
	RecordCredits(amount int)
	RecordPersist(op string, duration time.Duration, err error)
	SetActiveEngines(n int)
}

// Nop is an Observer that records nothing.
type Nop struct{}

func (Nop) RecordHeartLost(string)                     {}
func (Nop) RecordHeartsRegenerated(string, int)        {}
func (Nop) RecordStageCompleted(string)                {}
func (Nop) RecordCredits(int)                          {}
func (Nop) RecordPersist(string, time.Duration, error) {}
func (Nop) SetActiveEngines(int)                       {}

// PrometheusObserver exports game metrics to Prometheus.
type PrometheusObserver struct {
	heartsLost        *prometheus.CounterVec
	heartsRegenerated *prometheus.CounterVec
	stagesCompleted   *prometheus.CounterVec
	credits           prometheus.Counter
	persistDuration   *prometheus.HistogramVec
	persistErrors     *prometheus.CounterVec
	activeEngines     prometheus.Gauge
}

var _ Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver registers the game metrics on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "learnquest"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		heartsLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hearts_lost_total",
			Help:      "Hearts lost on incorrect answers.",
		}, []string{"interest"}),
		heartsRegenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hearts_regenerated_total",
			Help:      "Hearts recovered by timed regeneration.",
		}, []string{"interest"}),
		stagesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stages_completed_total",
			Help:      "Stage completions that unlocked a new stage.",
		}, []string{"interest"}),
		credits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_awarded_total",
			Help:      "Credits awarded to learners.",
		}),
		persistDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Latency of game state reads and merge-writes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Failed game state reads and merge-writes.",
		}, []string{"operation"}),
		activeEngines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_engines",
			Help:      "Learners with a live progress engine.",
		}),
	}

	collectors := []prometheus.Collector{
		o.heartsLost, o.heartsRegenerated, o.stagesCompleted, o.credits,
		o.persistDuration, o.persistErrors, o.activeEngines,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, fmt.Errorf("register game metric: %w", err)
		}
	}
	return o, nil
}

func (o *PrometheusObserver) RecordHeartLost(interest string) {
	if o == nil {
		return
	}
	o.heartsLost.WithLabelValues(interest).Inc()
}

func (o *PrometheusObserver) RecordHeartsRegenerated(interest string, n int) {
	if o == nil || n <= 0 {
		return
	}
	o.heartsRegenerated.WithLabelValues(interest).Add(float64(n))
}

func (o *PrometheusObserver) RecordStageCompleted(interest string) {
	if o == nil {
		return
	}
	o.stagesCompleted.WithLabelValues(interest).Inc()
}

func (o *PrometheusObserver) RecordCredits(amount int) {
	if o == nil || amount <= 0 {
		return
	}
	o.credits.Add(float64(amount))
}

// RecordPersist tracks a read or write duration and its failure.
func (o *PrometheusObserver) RecordPersist(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.persistDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		o.persistErrors.WithLabelValues(op).Inc()
	}
}

func (o *PrometheusObserver) SetActiveEngines(n int) {
	if o == nil {
		return
	}
	o.activeEngines.Set(float64(n))
}
