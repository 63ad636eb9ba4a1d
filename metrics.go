package brokermap

import (
	"github.com/funkygao/go-metrics"
)

type mapMetrics struct {
	Refreshes     metrics.Meter
	RefreshErrs   metrics.Counter
	WatchFires    metrics.Counter
	BrokersAdded  metrics.Counter
	BrokersKilled metrics.Counter
}

func newMapMetrics() *mapMetrics {
	return &mapMetrics{
		Refreshes:     metrics.NewRegisteredMeter("brokermap.refresh.qps", metrics.DefaultRegistry),
		RefreshErrs:   metrics.NewRegisteredCounter("brokermap.refresh.err", metrics.DefaultRegistry),
		WatchFires:    metrics.NewRegisteredCounter("brokermap.watch.fire", metrics.DefaultRegistry),
		BrokersAdded:  metrics.NewRegisteredCounter("brokermap.broker.add", metrics.DefaultRegistry),
		BrokersKilled: metrics.NewRegisteredCounter("brokermap.broker.dead", metrics.DefaultRegistry),
	}
}
