package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RouterMetrics содержит метрики маршрутизатора хранилищ тенантов.
type RouterMetrics struct {
	tenantsProvisioned   prometheus.Counter
	provisioningFailures prometheus.Counter
	migrationFailures    prometheus.Counter
	cachedTenants        prometheus.Gauge
}

// NewRouterMetrics создаёт метрики маршрутизатора в default registry.
func NewRouterMetrics() *RouterMetrics {
	return newRouterMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newRouterMetricsWithRegisterer(registerer prometheus.Registerer) *RouterMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &RouterMetrics{
		tenantsProvisioned: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopster_tenants_provisioned_total",
			Help: "Total number of tenant databases provisioned",
		}),
		provisioningFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopster_tenant_provisioning_failures_total",
			Help: "Total number of failed tenant provisioning attempts",
		}),
		migrationFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopster_tenant_migration_failures_total",
			Help: "Total number of failed schema migration runs during provisioning",
		}),
		cachedTenants: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shopster_cached_tenants",
			Help: "Number of tenant storages currently cached by the router",
		}),
	}
}

// RecordProvisioned увеличивает счётчик успешных provisioning и gauge кэша.
func (m *RouterMetrics) RecordProvisioned() {
	m.tenantsProvisioned.Inc()
	m.cachedTenants.Inc()
}

// RecordProvisioningFailure увеличивает счётчик неудачных provisioning.
func (m *RouterMetrics) RecordProvisioningFailure() {
	m.provisioningFailures.Inc()
}

// RecordMigrationFailure увеличивает счётчик неудачных миграций.
func (m *RouterMetrics) RecordMigrationFailure() {
	m.migrationFailures.Inc()
}

// RecordClosed уменьшает gauge кэша при закрытии хранилища тенанта.
func (m *RouterMetrics) RecordClosed() {
	m.cachedTenants.Dec()
}

// LedgerMetrics содержит метрики складского резервирования.
type LedgerMetrics struct {
	deltasApplied  prometheus.Counter
	deltasRejected prometheus.Counter
}

// NewLedgerMetrics создаёт метрики резервирования в default registry.
func NewLedgerMetrics() *LedgerMetrics {
	return newLedgerMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newLedgerMetricsWithRegisterer(registerer prometheus.Registerer) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LedgerMetrics{
		deltasApplied: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopster_reservation_deltas_applied_total",
			Help: "Total number of reservation deltas applied to warehouse rows",
		}),
		deltasRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopster_reservation_deltas_rejected_total",
			Help: "Total number of reservation deltas rejected by the non-negative invariant",
		}),
	}
}

// RecordDeltaApplied увеличивает счётчик применённых дельт.
func (m *LedgerMetrics) RecordDeltaApplied() {
	m.deltasApplied.Inc()
}

// RecordDeltaRejected увеличивает счётчик отклонённых дельт.
func (m *LedgerMetrics) RecordDeltaRejected() {
	m.deltasRejected.Inc()
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

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}
