// Package metrics counts the paths where the service degrades instead of failing.
package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	degraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemsetgroup",
		Name:      "degraded_total",
		Help:      "Failures swallowed so that a save, browse or render could continue.",
	}, []string{"operation"})

	thumbnailTier = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemsetgroup",
		Name:      "thumbnail_tier_total",
		Help:      "Thumbnail resolutions by the tier that produced the URL.",
	}, []string{"tier"})

	persist = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemsetgroup",
		Name:      "persist_total",
		Help:      "Representative mapping persist calls by result.",
	}, []string{"result"})
)

// Degraded logs and counts a swallowed failure
func Degraded(operation string, err error) {
	log.Printf("itemsetgroup: %s: %v", operation, err)
	degraded.WithLabelValues(operation).Inc()
}

// ThumbnailTier counts a resolution
func ThumbnailTier(tier string) {
	thumbnailTier.WithLabelValues(tier).Inc()
}

// Persist counts a persist result
func Persist(result string) {
	persist.WithLabelValues(result).Inc()
}
