package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions    *prometheus.CounterVec
	trainings      *prometheus.CounterVec
	trainDuration  *prometheus.HistogramVec
	modelCache     *prometheus.CounterVec
	relayFailures  *prometheus.CounterVec
	lastPrediction *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"status"},
		),
		trainings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_trainings_total",
				Help: "Total number of model training runs",
			},
			[]string{"symbol"},
		),
		trainDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_training_duration_seconds",
				Help:    "Duration of model training runs in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"symbol"},
		),
		modelCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_model_cache_total",
				Help: "Model artifact store lookups by result",
			},
			[]string{"result"},
		),
		relayFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_relay_failures_total",
				Help: "Predictions computed but not accepted by the backend",
			},
			[]string{"symbol"},
		),
		lastPrediction: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_prediction",
				Help: "Last predicted close price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordPrediction records a finished prediction request by outcome.
func (r *Recorder) RecordPrediction(status string) {
	r.predictions.WithLabelValues(status).Inc()
}

// RecordTraining records a training run and its duration in seconds.
func (r *Recorder) RecordTraining(symbol string, seconds float64) {
	r.trainings.WithLabelValues(symbol).Inc()
	r.trainDuration.WithLabelValues(symbol).Observe(seconds)
}

// RecordModelCache records an artifact store lookup result ("hit" or "miss").
func (r *Recorder) RecordModelCache(result string) {
	r.modelCache.WithLabelValues(result).Inc()
}

// RecordRelayFailure records a prediction the backend did not accept.
func (r *Recorder) RecordRelayFailure(symbol string) {
	r.relayFailures.WithLabelValues(symbol).Inc()
}

// RecordLastPrediction records the last predicted price for a symbol.
func (r *Recorder) RecordLastPrediction(symbol string, price float64) {
	r.lastPrediction.WithLabelValues(symbol).Set(price)
}
