// Package metrics описывает счётчики Prometheus для платёжного сценария и аутентификации.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codevault"

// Metrics набор счётчиков сервиса.
type Metrics struct {
	// OrphanedOrders заказы, созданные у провайдера, но не сохранённые локально.
	OrphanedOrders prometheus.Counter
	// CompletionFailures оплаченные заказы, которые не удалось отметить completed.
	CompletionFailures prometheus.Counter
	// AmountMismatches расхождения суммы провайдера и локального заказа.
	AmountMismatches prometheus.Counter
	// ProviderErrors ошибки вызовов провайдера по операциям.
	ProviderErrors *prometheus.CounterVec
	// PaymentsCompleted успешно сверенные оплаты.
	PaymentsCompleted prometheus.Counter
	// AuthFailures отказы в аутентификации по причинам.
	AuthFailures *prometheus.CounterVec
}

// New регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrphanedOrders: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "orphaned_orders_total",
			Help:      "Provider orders whose local record could not be persisted.",
		}),
		CompletionFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "completion_failures_total",
			Help:      "Paid orders that could not be marked completed locally.",
		}),
		AmountMismatches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "amount_mismatch_total",
			Help:      "Paid orders whose provider amount differs from the local amount.",
		}),
		ProviderErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "provider_errors_total",
			Help:      "Failed payment provider calls by operation.",
		}, []string{"operation"}),
		PaymentsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "completed_total",
			Help:      "Orders marked completed after provider verification.",
		}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Rejected authentication attempts by reason.",
		}, []string{"reason"}),
	}
}
