// Package metrics exposes Prometheus instruments for the credit engine.
// Collectors are registered on the default registry and served by the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClicksCredited counts clicks that resulted in a credit being
	// applied to the current recipient.
	ClicksCredited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ciclone",
		Name:      "clicks_credited_total",
		Help:      "Clicks that credited the current rotation recipient.",
	})

	// ClicksRejected counts clicks that found no eligible recipient.
	ClicksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ciclone",
		Name:      "clicks_rejected_total",
		Help:      "Clicks rejected because the rotation was stalled.",
	})

	// Rotations counts recipient promotions after an account reached
	// the credit cap.
	Rotations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ciclone",
		Name:      "rotations_total",
		Help:      "Recipient rotations triggered by the credit cap.",
	})

	// RatingsRecorded counts accepted product ratings.
	RatingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ciclone",
		Name:      "ratings_recorded_total",
		Help:      "Product ratings recorded.",
	})
)
