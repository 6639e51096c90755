package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scan pipeline metrics
var (
	PagesScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_pages_scanned_total",
			Help: "Total number of listing pages fetched and scanned.",
		},
	)

	ArticlesInspectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_inspected_total",
			Help: "Total number of article detail pages fetched.",
		},
	)

	AttachmentsFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachments_found_total",
			Help: "Total number of attachment descriptors found on detail pages.",
		},
		[]string{"extension"},
	)

	DocumentDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_downloads_total",
			Help: "Total number of document download attempts by outcome.",
		},
		[]string{"extension", "status"},
	)
)

// Page cache metrics. The corresponding page_cache_entries gauge is
// registered by the cache itself so it can read the live page count.
var (
	PageCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_hits_total",
			Help: "Total number of board pages served from the page cache.",
		},
	)

	PageCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_misses_total",
			Help: "Total number of page cache lookups that went to the board.",
		},
	)

	PageCacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_evictions_total",
			Help: "Total number of pages evicted from the page cache.",
		},
	)
)

// Download outcome label values for DocumentDownloadsTotal.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusExists = "exists"
)

func init() {
	prometheus.MustRegister(
		PagesScannedTotal,
		ArticlesInspectedTotal,
		AttachmentsFoundTotal,
		DocumentDownloadsTotal,
		PageCacheHitsTotal,
		PageCacheMissesTotal,
		PageCacheEvictionsTotal,
	)
}
