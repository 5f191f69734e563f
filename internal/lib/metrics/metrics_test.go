package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrphanedOrders.Inc()
	m.ProviderErrors.WithLabelValues("create_order").Add(2)
	m.AuthFailures.WithLabelValues("invalid_token").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrphanedOrders))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderErrors.WithLabelValues("create_order")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "codevault_payment_orphaned_orders_total")
	assert.Contains(t, names, "codevault_auth_failures_total")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
