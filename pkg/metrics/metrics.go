package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит метрики движка турниров
type Metrics struct {
	// Match метрики
	MatchesTotal      *prometheus.CounterVec
	MatchDuration     *prometheus.HistogramVec
	MatchesInProgress prometheus.Gauge

	// Parallelism метрики
	ActiveParallelSlots prometheus.Gauge
	ParallelCapacity    prometheus.Gauge

	// Series/tournament метрики
	SeriesStepsCompleted  *prometheus.CounterVec
	TournamentsInProgress prometheus.Gauge

	// Snapshot cache метрики
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New создаёт новый экземпляр метрик
func New() *Metrics {
	return &Metrics{
		MatchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botarena_matches_total",
				Help: "Total number of matches processed",
			},
			[]string{"status", "game_type"},
		),
		MatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "botarena_match_duration_seconds",
				Help:    "Match execution duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
			},
			[]string{"game_type"},
		),
		MatchesInProgress: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botarena_matches_in_progress",
				Help: "Number of matches currently being processed",
			},
		),
		ActiveParallelSlots: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botarena_active_parallel_slots",
				Help: "Number of maxParallelMatches slots currently occupied",
			},
		),
		ParallelCapacity: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botarena_parallel_capacity",
				Help: "Configured maxParallelMatches for the active tournament",
			},
		),
		SeriesStepsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botarena_series_steps_completed_total",
				Help: "Total number of series event steps completed",
			},
			[]string{"game_type", "status"},
		),
		TournamentsInProgress: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "botarena_tournaments_in_progress",
				Help: "Number of tournaments currently InProgress or Paused",
			},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botarena_cache_hits_total",
				Help: "Total number of snapshot cache hits",
			},
			[]string{"operation"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botarena_cache_misses_total",
				Help: "Total number of snapshot cache misses",
			},
			[]string{"operation"},
		),
	}
}

// RecordMatchStart записывает начало матча
func (m *Metrics) RecordMatchStart() {
	m.MatchesInProgress.Inc()
}

// RecordMatchComplete записывает завершение матча
func (m *Metrics) RecordMatchComplete(gameType string, status string, duration time.Duration) {
	m.MatchesInProgress.Dec()
	m.MatchesTotal.WithLabelValues(status, gameType).Inc()
	m.MatchDuration.WithLabelValues(gameType).Observe(duration.Seconds())
}

// SetActiveParallelSlots устанавливает текущее число занятых слотов.
func (m *Metrics) SetActiveParallelSlots(n int) {
	m.ActiveParallelSlots.Set(float64(n))
}

// SetParallelCapacity устанавливает сконфигурированную ёмкость.
func (m *Metrics) SetParallelCapacity(n int) {
	m.ParallelCapacity.Set(float64(n))
}

// RecordSeriesStep записывает завершение шага серии.
func (m *Metrics) RecordSeriesStep(gameType, status string) {
	m.SeriesStepsCompleted.WithLabelValues(gameType, status).Inc()
}

// SetTournamentsInProgress устанавливает число активных турниров.
func (m *Metrics) SetTournamentsInProgress(n int) {
	m.TournamentsInProgress.Set(float64(n))
}

// RecordCacheHit записывает попадание в кэш.
func (m *Metrics) RecordCacheHit(operation string) {
	m.CacheHits.WithLabelValues(operation).Inc()
}

// RecordCacheMiss записывает промах кэша.
func (m *Metrics) RecordCacheMiss(operation string) {
	m.CacheMisses.WithLabelValues(operation).Inc()
}
