package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compteurs du moteur : le symptôme typique d'un feed partiel se diagnostique
// par le ratio requêtes/échecs par endpoint logique.
var (
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filxconnect_api_requests_total",
		Help: "Outbound requests to the backend API, by logical operation.",
	}, []string{"operation"})

	APIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filxconnect_api_errors_total",
		Help: "Failed backend API requests, by logical operation.",
	}, []string{"operation"})

	FeedRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filxconnect_feed_refreshes_total",
		Help: "Completed feed refresh passes.",
	})

	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filxconnect_mutations_total",
		Help: "User-initiated mutations accepted by the backend.",
	}, []string{"kind"})
)
