package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики оформления заказа и корзины.
type CheckoutMetrics struct {
	// Счётчики операций
	ordersPlaced     prometheus.Counter
	checkoutRejected *prometheus.CounterVec
	cartLinesAdded   prometheus.Counter
	cascadeDeletes   prometheus.Counter

	// Гистограмма времени сборки заказа
	checkoutDuration prometheus.Histogram

	// Счётчик зачищенных creating-заголовков
	prunedOrders prometheus.Counter
}

// NewCheckoutMetrics создаёт новый экземпляр метрик оформления заказа.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		checkoutRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_rejected_total",
			Help: "Total number of checkout requests rejected grouped by reason",
		}, []string{"reason"}),
		cartLinesAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_cart_lines_added_total",
			Help: "Total number of cart line insert-or-increment operations",
		}),
		cascadeDeletes: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_cascade_deletes_total",
			Help: "Total number of admin cascade user deletions",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shop_checkout_duration_seconds",
			Help:    "Duration of order assembly in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		prunedOrders: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_creating_orders_pruned_total",
			Help: "Total number of stale creating order headers pruned",
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

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик оформленных заказов.
func (m *CheckoutMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordCheckoutRejected увеличивает счётчик отклонённых запросов.
func (m *CheckoutMetrics) RecordCheckoutRejected(reason string) {
	m.checkoutRejected.WithLabelValues(reason).Inc()
}

// RecordCartLineAdded увеличивает счётчик операций с корзиной.
func (m *CheckoutMetrics) RecordCartLineAdded() {
	m.cartLinesAdded.Inc()
}

// RecordCascadeDelete увеличивает счётчик каскадных удалений.
func (m *CheckoutMetrics) RecordCascadeDelete() {
	m.cascadeDeletes.Inc()
}

// RecordCheckoutDuration записывает время сборки заказа.
func (m *CheckoutMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordPrunedOrders увеличивает счётчик зачищенных заголовков.
func (m *CheckoutMetrics) RecordPrunedOrders(count int) {
	m.prunedOrders.Add(float64(count))
}
