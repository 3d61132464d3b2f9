package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics содержит метрики операций жизненного цикла заказа.
type LifecycleMetrics struct {
	// Счётчики переходов и отказов
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec

	// Гистограмма времени выполнения операций
	operationDuration *prometheus.HistogramVec

	// Счётчики записанных артефактов
	trackingEntries prometheus.Counter
	outboxEvents    prometheus.Counter

	// Внешний вызов прошёл, локальный коммит — нет: требуется сверка оператором.
	reconciliationRequired prometheus.Counter
}

// NewLifecycleMetrics создаёт новый экземпляр метрик жизненного цикла.
func NewLifecycleMetrics() *LifecycleMetrics {
	return newLifecycleMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newLifecycleMetricsWithRegisterer(registerer prometheus.Registerer) *LifecycleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LifecycleMetrics{
		transitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealer_oms_lifecycle_transitions_total",
			Help: "Total number of committed order state transitions grouped by target status.",
		}, []string{"status"}),
		failures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealer_oms_lifecycle_failures_total",
			Help: "Total number of rejected lifecycle operations grouped by reason.",
		}, []string{"reason"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "dealer_oms_lifecycle_operation_duration_seconds",
			Help:    "Duration of lifecycle operations in seconds, external calls included.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		trackingEntries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealer_oms_tracking_entries_total",
			Help: "Total number of tracking entries recorded.",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealer_oms_outbox_events_total",
			Help: "Total number of outbox events staged.",
		}),
		reconciliationRequired: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealer_oms_lifecycle_reconciliation_required_total",
			Help: "Times a remote effect succeeded but the local commit failed; operator attention needed.",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordTransition увеличивает счётчик переходов в целевой статус.
func (m *LifecycleMetrics) RecordTransition(status string) {
	m.transitions.WithLabelValues(status).Inc()
}

// RecordFailure увеличивает счётчик отказов по причине.
func (m *LifecycleMetrics) RecordFailure(reason string) {
	m.failures.WithLabelValues(reason).Inc()
}

// RecordOperationDuration записывает время выполнения операции.
func (m *LifecycleMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTrackingEntry увеличивает счётчик записей трекинга.
func (m *LifecycleMetrics) RecordTrackingEntry() {
	m.trackingEntries.Inc()
}

// RecordOutboxEvent увеличивает счётчик outbox-событий.
func (m *LifecycleMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// RecordReconciliationRequired отмечает расхождение внешнего эффекта и локального состояния.
func (m *LifecycleMetrics) RecordReconciliationRequired() {
	m.reconciliationRequired.Inc()
}
