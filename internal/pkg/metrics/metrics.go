// Package metrics holds the domain counters exported next to the HTTP metrics on /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewUpserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villfinder",
		Name:      "review_upserts_total",
		Help:      "Review writes by sentiment label and whether a new row was created.",
	}, []string{"sentiment", "created"})

	searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villfinder",
		Name:      "search_requests_total",
		Help:      "Place searches by request shape.",
	}, []string{"shape"})

	favoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villfinder",
		Name:      "favorite_toggles_total",
		Help:      "Favorite toggles by listing kind and intent.",
	}, []string{"kind", "favorite"})
)

func ReviewUpserted(sentiment string, created bool) {
	if sentiment == "" {
		sentiment = "none"
	}
	reviewUpserts.WithLabelValues(sentiment, strconv.FormatBool(created)).Inc()
}

func Searched(shape string) {
	searches.WithLabelValues(shape).Inc()
}

func FavoriteToggled(kind string, favorite bool) {
	favoriteToggles.WithLabelValues(kind, strconv.FormatBool(favorite)).Inc()
}
