package pagecache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	entriesMu    sync.Mutex
	entriesGauge prometheus.GaugeFunc
	// entriesReg is the registerer for the entries gauge. A variable so tests
	// can substitute an isolated registry.
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesGauge exposes the current page count as page_cache_entries,
// reading lenFunc at scrape time. Creating a new store replaces any gauge a
// previous store registered.
func registerEntriesGauge(lenFunc func() int) {
	entriesMu.Lock()
	defer entriesMu.Unlock()

	if entriesGauge != nil {
		entriesReg.Unregister(entriesGauge)
	}
	entriesGauge = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "page_cache_entries",
			Help: "Current number of board pages held in the page cache.",
		},
		func() float64 { return float64(lenFunc()) },
	)
	_ = entriesReg.Register(entriesGauge)
}

func unregisterEntriesGauge() {
	entriesMu.Lock()
	defer entriesMu.Unlock()

	if entriesGauge != nil {
		entriesReg.Unregister(entriesGauge)
		entriesGauge = nil
	}
}
